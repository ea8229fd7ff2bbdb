package models

import (
	"time"
)

// Transaction 交易模型
// 一笔交易是至少两条分录的容器，分录金额之和恒为零（复式记账）
type Transaction struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Date        time.Time         `json:"date" gorm:"not null;index"`
	Description string            `json:"description" gorm:"size:255"`
	ExternalID  string            `json:"external_id,omitempty" gorm:"size:64;index"` // 银行数据同步的外部流水号，手工交易为空
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Lines       []TransactionLine `json:"lines" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionLine 交易分录模型
// 约定：资产/负债账户持有资金侧分录，收入/支出科目持有类别侧分录
type TransactionLine struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	TransactionID uint       `json:"transaction_id" gorm:"index;not null"`
	AccountID     uint       `json:"account_id" gorm:"index;not null"`
	Amount        float64    `json:"amount" gorm:"type:decimal(12,2);not null"` // 带符号金额
	Cleared       bool       `json:"cleared" gorm:"default:false;index"`        // 已对账（银行/信用卡流水核对）
	ClearedAt     *time.Time `json:"cleared_at"`
	Purpose       string     `json:"purpose" gorm:"size:10;default:business"` // business/personal/mixed
	JobID         *uint      `json:"job_id" gorm:"index"`
	VendorID      *uint      `json:"vendor_id" gorm:"index"`
	InstallerID   *uint      `json:"installer_id" gorm:"index"`
	DealID        *uint      `json:"deal_id" gorm:"index"`
	RehabCategory string     `json:"rehab_category" gorm:"size:50"` // 翻新类别（材料/人工等）
	CostType      string     `json:"cost_type" gorm:"size:50"`
	CCSettled     bool       `json:"cc_settled" gorm:"default:false;index"` // 信用卡核销，独立于对账状态
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Account       Account    `json:"-" gorm:"foreignKey:AccountID"`
}

// TableName 设置表名
func (TransactionLine) TableName() string {
	return "transaction_lines"
}
