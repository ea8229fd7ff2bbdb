package models

import (
	"time"
)

// ClosedPeriod 结账期间模型
// 期间只能按自然月顺序结账；结账后该月及之前的交易不可修改
type ClosedPeriod struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	YearMonth    string    `json:"year_month" gorm:"size:7;not null;uniqueIndex"` // 格式 2024-03
	ClosedAt     time.Time `json:"closed_at" gorm:"not null"`
	ClosedBy     string    `json:"closed_by" gorm:"size:50;not null"`
	Notes        string    `json:"notes" gorm:"size:255"`
	Latest       bool      `json:"latest" gorm:"default:false;index"` // 最近一次结账的期间
	Reopened     bool      `json:"reopened" gorm:"default:false"`
	ReopenReason string    `json:"reopen_reason" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 设置表名
func (ClosedPeriod) TableName() string {
	return "closed_periods"
}
