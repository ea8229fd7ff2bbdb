package models

import (
	"time"
)

// 账户类型
const (
	AccountTypeAsset     = "asset"     // 资产（银行、房产）
	AccountTypeLiability = "liability" // 负债（信用卡、贷款）
	AccountTypeIncome    = "income"    // 收入科目
	AccountTypeExpense   = "expense"   // 支出科目
)

// 账户默认用途
const (
	PurposeBusiness = "business" // 经营
	PurposePersonal = "personal" // 个人
	PurposeMixed    = "mixed"    // 混合
)

// Account 账户/科目模型
// 账户只停用不删除，历史分录必须始终可以回溯到账户
type Account struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Code      string    `json:"code" gorm:"size:10;index"` // 科目编码，按区间分类，如 1000-1099 为经营银行账户
	Type      string    `json:"type" gorm:"size:20;not null;index"` // asset/liability/income/expense
	Purpose   string    `json:"purpose" gorm:"size:10;default:business"` // 默认用途：business/personal/mixed
	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Account) TableName() string {
	return "accounts"
}

// GetAccountTypes 获取所有账户类型
func GetAccountTypes() []string {
	return []string{
		AccountTypeAsset,
		AccountTypeLiability,
		AccountTypeIncome,
		AccountTypeExpense,
	}
}

// IsCashSide 资金侧账户（资产/负债）持有现金侧分录
func (a Account) IsCashSide() bool {
	return a.Type == AccountTypeAsset || a.Type == AccountTypeLiability
}
