package models

import (
	"time"

	"gorm.io/gorm"
)

// 房产项目类型
const (
	DealTypeFlip   = "flip"   // 翻售
	DealTypeRental = "rental" // 出租
)

// 房产项目状态
const (
	DealStatusActive = "active"
	DealStatusSold   = "sold"
	DealStatusHeld   = "held"
)

// RealEstateDeal 房产项目模型
// 关联资产账户与贷款账户用于生命周期事件（购入、放款、持有成本、利息、退款、出售）的自动分录
type RealEstateDeal struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Nickname       string         `json:"nickname" gorm:"size:100;not null"`
	Address        string         `json:"address" gorm:"size:255"`
	Type           string         `json:"type" gorm:"size:20;not null;index"` // flip/rental
	Status         string         `json:"status" gorm:"size:20;default:active;index"`
	AssetAccountID *uint          `json:"asset_account_id" gorm:"index"` // 关联资产账户
	LoanAccountID  *uint          `json:"loan_account_id" gorm:"index"`  // 关联贷款负债账户
	PurchasePrice  float64        `json:"purchase_price" gorm:"type:decimal(12,2);default:0"`
	ARV            float64        `json:"arv" gorm:"type:decimal(12,2);default:0"` // 修缮后估值
	LoanAmount     float64        `json:"loan_amount" gorm:"type:decimal(12,2);default:0"`
	InterestRate   float64        `json:"interest_rate" gorm:"type:decimal(6,4);default:0"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (RealEstateDeal) TableName() string {
	return "real_estate_deals"
}
