package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor 供应商（材料类支出必须关联）
type Vendor struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Phone     string         `json:"phone" gorm:"size:30"`
	Notes     string         `json:"notes" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Vendor) TableName() string {
	return "vendors"
}

// Installer 安装师傅（人工类支出必须关联）
type Installer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Phone     string         `json:"phone" gorm:"size:30"`
	Trade     string         `json:"trade" gorm:"size:50"` // 工种，如水电/木工
	Notes     string         `json:"notes" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Installer) TableName() string {
	return "installers"
}

// LeadSource 获客来源
type LeadSource struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Notes     string         `json:"notes" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (LeadSource) TableName() string {
	return "lead_sources"
}
