package models

import (
	"time"
)

// SyncCursor 银行数据同步游标
// 每个接入的银行 item 一行，记录聚合服务上次返回的游标，下次同步从该游标继续
type SyncCursor struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ItemID    string     `json:"item_id" gorm:"size:64;not null;uniqueIndex"` // 聚合服务的 item 标识
	AccountID uint       `json:"account_id" gorm:"not null;index"`            // 该 item 入账的银行账户
	Cursor    string     `json:"cursor" gorm:"size:255"`
	LastRunAt *time.Time `json:"last_run_at"`
	LastRunID string     `json:"last_run_id" gorm:"size:36"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName 设置表名
func (SyncCursor) TableName() string {
	return "sync_cursors"
}
