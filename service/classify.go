package service

import (
	"strconv"

	"ledger/models"
)

// 分类类别
// 历史版本曾按账户名称子串匹配分类，重命名账户会悄悄破坏报表，
// 现统一按科目编码区间匹配
const (
	CategoryJobIncome        = "job_income"
	CategoryRentalIncome     = "rental_income"
	CategoryJobExpense       = "job_expense"
	CategoryMarketingExpense = "marketing_expense"
	CategoryOverheadExpense  = "overhead_expense"
	CategoryRentalExpense    = "rental_expense"
	CategoryPersonalExpense  = "personal_expense"
	CategoryUncategorized    = "uncategorized"
)

// 科目编码区间
const (
	CodeBusinessBankLow    = 1000
	CodeBusinessBankHigh   = 1099
	CodePersonalBankLow    = 1100
	CodePersonalBankHigh   = 1199
	CodeCreditCardLow      = 2000
	CodeCreditCardHigh     = 2099
	CodeLoanLow            = 2100
	CodeLoanHigh           = 2199
	CodeJobIncomeLow       = 40000
	CodeJobIncomeHigh      = 40999
	CodeRentalIncomeLow    = 41000
	CodeRentalIncomeHigh   = 41999
	CodeJobExpenseLow      = 60000
	CodeJobExpenseHigh     = 60999
	CodeMarketingLow       = 61000
	CodeMarketingHigh      = 61999
	CodeOverheadLow        = 62000
	CodeOverheadHigh       = 62004
	CodeRentalExpenseLow   = 62005
	CodeRentalExpenseHigh  = 62011
	CodePersonalLow        = 62012
	CodePersonalHigh       = 62013
	CodeFlipRehabMaterials = 62014
)

// Classification 单条分录的分类结果
type Classification struct {
	Category   string `json:"category"`
	IsBusiness bool   `json:"is_business"`
}

// AccountCode 解析科目编码，无编码或非数字返回 false
func AccountCode(a models.Account) (int, bool) {
	if a.Code == "" {
		return 0, false
	}
	code, err := strconv.Atoi(a.Code)
	if err != nil {
		return 0, false
	}
	return code, true
}

// ClassifyAccount 按科目编码区间对账户分类
func ClassifyAccount(a models.Account) string {
	code, ok := AccountCode(a)
	if !ok {
		return CategoryUncategorized
	}
	switch {
	case code >= CodeJobIncomeLow && code <= CodeJobIncomeHigh:
		return CategoryJobIncome
	case code >= CodeRentalIncomeLow && code <= CodeRentalIncomeHigh:
		return CategoryRentalIncome
	case code == CodeFlipRehabMaterials:
		// 翻新材料归入工程支出
		return CategoryJobExpense
	case code >= CodeJobExpenseLow && code <= CodeJobExpenseHigh:
		return CategoryJobExpense
	case code >= CodeMarketingLow && code <= CodeMarketingHigh:
		return CategoryMarketingExpense
	case code >= CodeOverheadLow && code <= CodeOverheadHigh:
		return CategoryOverheadExpense
	case code >= CodeRentalExpenseLow && code <= CodeRentalExpenseHigh:
		return CategoryRentalExpense
	case code >= CodePersonalLow && code <= CodePersonalHigh:
		return CategoryPersonalExpense
	case a.Type == models.AccountTypeExpense:
		return CategoryOverheadExpense
	}
	return CategoryUncategorized
}

// ClassifyLine 分录分类：分录自身的用途优先，缺省时回落到账户的默认用途
func ClassifyLine(line models.TransactionLine, account models.Account) Classification {
	purpose := line.Purpose
	if purpose == "" {
		purpose = account.Purpose
	}
	return Classification{
		Category:   ClassifyAccount(account),
		IsBusiness: purpose != models.PurposePersonal,
	}
}

// AccountTotals 单账户的余额聚合
type AccountTotals struct {
	AccountID    uint    `json:"account_id"`
	Total        float64 `json:"total"`         // 全部分录之和
	ClearedTotal float64 `json:"cleared_total"` // 已对账分录之和
}

// Balance 按账户类型返回余额
// 资产账户：全部分录（含未对账）计入余额；其余类型只计已对账分录
func Balance(accountType string, t AccountTotals) float64 {
	if accountType == models.AccountTypeAsset {
		return t.Total
	}
	return t.ClearedTotal
}

// 待处理分录桶
const (
	PendingBucketBank = "pending_bank" // 资产账户待对账
	PendingBucketCard = "pending_card" // 负债账户待对账
)

// PendingBucket 未对账分录的归属桶，非资金账户返回空串
func PendingBucket(accountType string) string {
	switch accountType {
	case models.AccountTypeAsset:
		return PendingBucketBank
	case models.AccountTypeLiability:
		return PendingBucketCard
	}
	return ""
}

// YTDSummary 年度收支汇总
type YTDSummary struct {
	Year      int                `json:"year"`
	Income    map[string]float64 `json:"income"`
	Expense   map[string]float64 `json:"expense"`
	NetIncome float64            `json:"net_income"`
	LineCount int                `json:"line_count"`
}

// SummarizeYTD 按分类汇总一组分录（调用方负责按年度与对账状态筛选）
// 只统计类别侧分录（收入/支出科目），资金侧分录不参与收支分类
func SummarizeYTD(year int, lines []models.TransactionLine, accounts map[uint]models.Account) YTDSummary {
	summary := YTDSummary{
		Year:    year,
		Income:  make(map[string]float64),
		Expense: make(map[string]float64),
	}
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			continue
		}
		switch account.Type {
		case models.AccountTypeIncome:
			// 收入科目侧分录为负数，取反后计入收入
			summary.Income[ClassifyAccount(account)] += -line.Amount
			summary.NetIncome += -line.Amount
			summary.LineCount++
		case models.AccountTypeExpense:
			summary.Expense[ClassifyAccount(account)] += line.Amount
			summary.NetIncome -= line.Amount
			summary.LineCount++
		}
	}
	return summary
}
