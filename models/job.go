package models

import (
	"time"

	"gorm.io/gorm"
)

// 工程项目状态
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Job 工程项目模型
// 项目利润通过按账户类型汇总关联分录得出
type Job struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Address      string         `json:"address" gorm:"size:255"`
	Status       string         `json:"status" gorm:"size:20;default:open;index"` // open/closed
	StartDate    *time.Time     `json:"start_date"`
	EndDate      *time.Time     `json:"end_date"`
	LeadSourceID *uint          `json:"lead_source_id" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Job) TableName() string {
	return "jobs"
}
