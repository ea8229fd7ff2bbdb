package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 交易类型
const (
	EntryIncome   = "income"
	EntryExpense  = "expense"
	EntryTransfer = "transfer"
	// 房产生命周期事件
	EntryAcquisition = "acquisition"  // 购入
	EntryLoanDraw    = "loan_draw"    // 贷款放款
	EntryHoldingCost = "holding_cost" // 持有成本
	EntryInterest    = "interest"     // 贷款利息
	EntryRefund      = "refund"       // 退款
	EntrySale        = "sale"         // 出售
)

// 支出种类：材料必须关联供应商，人工必须关联安装师傅
const (
	ExpenseKindGeneral  = "general"
	ExpenseKindMaterial = "material"
	ExpenseKindLabor    = "labor"
)

// BalanceEpsilon 分录合计允许的误差
const BalanceEpsilon = 0.01

// EntryInput 交易构造输入
type EntryInput struct {
	Kind        string
	Date        time.Time
	Description string
	Purpose     string

	// 普通收支/转账
	Amount            float64 // 正数
	CashAccountID     uint    // 资金账户（银行/信用卡）
	CategoryAccountID uint    // 类别科目（收入/支出）
	ToAccountID       uint    // 转账目标账户

	// 可选关联
	JobID         *uint
	VendorID      *uint
	InstallerID   *uint
	DealID        *uint
	RehabCategory string
	CostType      string
	ExpenseKind   string

	// 房产生命周期参数
	PurchasePrice float64
	LoanAmount    float64
	ClosingCosts  float64
	SalePrice     float64
	LoanPayoff    float64
}

// BuildLines 根据输入构造分录
// 纯函数：不读写数据库，deal 仅生命周期事件需要。
// 返回前逐笔复核合计为零，不平的交易绝不会被返回
func BuildLines(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	var lines []models.TransactionLine
	var err error

	switch in.Kind {
	case EntryIncome:
		lines, err = buildIncome(in)
	case EntryExpense:
		lines, err = buildExpense(in)
	case EntryTransfer:
		lines, err = buildTransfer(in)
	case EntryAcquisition:
		lines, err = buildAcquisition(in, deal)
	case EntryLoanDraw:
		lines, err = buildLoanDraw(in, deal)
	case EntryHoldingCost, EntryInterest:
		lines, err = buildDealExpense(in, deal)
	case EntryRefund:
		lines, err = buildRefund(in, deal)
	case EntrySale:
		lines, err = buildSale(in, deal)
	default:
		return nil, fmt.Errorf("未知的交易类型: %s", in.Kind)
	}
	if err != nil {
		return nil, err
	}

	if err := VerifyBalanced(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// VerifyBalanced 复式记账平衡校验：全部分录金额之和必须为零（误差 0.01 内）
func VerifyBalanced(lines []models.TransactionLine) error {
	if len(lines) < 2 {
		return errors.New("一笔交易至少包含两条分录")
	}
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(decimal.NewFromFloat(line.Amount))
	}
	if sum.Abs().GreaterThan(decimal.NewFromFloat(BalanceEpsilon)) {
		return fmt.Errorf("分录不平衡，合计 %s 应为 0", sum.StringFixed(2))
	}
	return nil
}

func requirePositive(amount float64, field string) error {
	if amount <= 0 {
		return fmt.Errorf("%s必须大于0", field)
	}
	return nil
}

func buildIncome(in EntryInput) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "金额"); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 || in.CategoryAccountID == 0 {
		return nil, errors.New("收入必须指定资金账户和收入科目")
	}
	// 收入：资金账户 +amount，收入科目 -amount
	return []models.TransactionLine{
		cashLine(in, in.CashAccountID, in.Amount),
		categoryLine(in, in.CategoryAccountID, -in.Amount),
	}, nil
}

func buildExpense(in EntryInput) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "金额"); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 || in.CategoryAccountID == 0 {
		return nil, errors.New("支出必须指定资金账户和支出科目")
	}
	switch in.ExpenseKind {
	case ExpenseKindMaterial:
		if in.VendorID == nil {
			return nil, errors.New("材料类支出必须关联供应商")
		}
	case ExpenseKindLabor:
		if in.InstallerID == nil {
			return nil, errors.New("人工类支出必须关联安装师傅")
		}
	}
	// 支出：支出科目 +amount，资金账户 -amount
	return []models.TransactionLine{
		categoryLine(in, in.CategoryAccountID, in.Amount),
		cashLine(in, in.CashAccountID, -in.Amount),
	}, nil
}

func buildTransfer(in EntryInput) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "金额"); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 || in.ToAccountID == 0 {
		return nil, errors.New("转账必须指定转出和转入账户")
	}
	if in.CashAccountID == in.ToAccountID {
		return nil, errors.New("转出和转入账户不能相同")
	}
	// 转账：转出 -amount，转入 +amount，无类别侧分录
	return []models.TransactionLine{
		cashLine(in, in.CashAccountID, -in.Amount),
		cashLine(in, in.ToAccountID, in.Amount),
	}, nil
}

func requireDealAccounts(deal *models.RealEstateDeal, needLoan bool) error {
	if deal == nil {
		return errors.New("生命周期事件必须关联房产项目")
	}
	if deal.AssetAccountID == nil {
		return fmt.Errorf("房产 %s 未关联资产账户", deal.Nickname)
	}
	if needLoan && deal.LoanAccountID == nil {
		return fmt.Errorf("房产 %s 未关联贷款账户", deal.Nickname)
	}
	return nil
}

// buildAcquisition 购入：资产 +购房价，交割费用 +费用，贷款 -放款额，资金账户 -首付现金
// 首付现金 = 购房价 + 交割费用 - 贷款额
func buildAcquisition(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	if err := requirePositive(in.PurchasePrice, "购房价"); err != nil {
		return nil, err
	}
	if in.ClosingCosts < 0 || in.LoanAmount < 0 {
		return nil, errors.New("交割费用和贷款额不能为负数")
	}
	if err := requireDealAccounts(deal, in.LoanAmount > 0); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 {
		return nil, errors.New("购入必须指定资金账户")
	}

	purchase := decimal.NewFromFloat(in.PurchasePrice)
	closing := decimal.NewFromFloat(in.ClosingCosts)
	loan := decimal.NewFromFloat(in.LoanAmount)
	cashToClose := purchase.Add(closing).Sub(loan)

	lines := []models.TransactionLine{
		cashLine(in, *deal.AssetAccountID, in.PurchasePrice),
	}
	if in.ClosingCosts > 0 {
		if in.CategoryAccountID == 0 {
			return nil, errors.New("有交割费用时必须指定费用科目")
		}
		lines = append(lines, categoryLine(in, in.CategoryAccountID, in.ClosingCosts))
	}
	if in.LoanAmount > 0 {
		lines = append(lines, cashLine(in, *deal.LoanAccountID, loan.Neg().InexactFloat64()))
	}
	lines = append(lines, cashLine(in, in.CashAccountID, cashToClose.Neg().InexactFloat64()))
	return lines, nil
}

// buildLoanDraw 贷款放款：资金账户 +amount，贷款账户 -amount
func buildLoanDraw(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "放款金额"); err != nil {
		return nil, err
	}
	if err := requireDealAccounts(deal, true); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 {
		return nil, errors.New("放款必须指定入账资金账户")
	}
	return []models.TransactionLine{
		cashLine(in, in.CashAccountID, in.Amount),
		cashLine(in, *deal.LoanAccountID, -in.Amount),
	}, nil
}

// buildDealExpense 持有成本/利息：费用科目 +amount，资金账户 -amount
func buildDealExpense(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "金额"); err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, errors.New("生命周期事件必须关联房产项目")
	}
	if in.CashAccountID == 0 || in.CategoryAccountID == 0 {
		return nil, errors.New("必须指定资金账户和费用科目")
	}
	return []models.TransactionLine{
		categoryLine(in, in.CategoryAccountID, in.Amount),
		cashLine(in, in.CashAccountID, -in.Amount),
	}, nil
}

// buildRefund 退款：资金账户 +amount，原费用科目 -amount
func buildRefund(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	if err := requirePositive(in.Amount, "退款金额"); err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, errors.New("生命周期事件必须关联房产项目")
	}
	if in.CashAccountID == 0 || in.CategoryAccountID == 0 {
		return nil, errors.New("退款必须指定资金账户和原费用科目")
	}
	return []models.TransactionLine{
		cashLine(in, in.CashAccountID, in.Amount),
		categoryLine(in, in.CategoryAccountID, -in.Amount),
	}, nil
}

// buildSale 出售：资金账户 +净到手款，交割费用 +费用，贷款 +还清额，资产 -售价
// 净到手款 = 售价 - 还清额 - 交割费用
func buildSale(in EntryInput, deal *models.RealEstateDeal) ([]models.TransactionLine, error) {
	if err := requirePositive(in.SalePrice, "售价"); err != nil {
		return nil, err
	}
	if in.ClosingCosts < 0 || in.LoanPayoff < 0 {
		return nil, errors.New("交割费用和贷款还清额不能为负数")
	}
	if err := requireDealAccounts(deal, in.LoanPayoff > 0); err != nil {
		return nil, err
	}
	if in.CashAccountID == 0 {
		return nil, errors.New("出售必须指定资金账户")
	}

	sale := decimal.NewFromFloat(in.SalePrice)
	payoff := decimal.NewFromFloat(in.LoanPayoff)
	closing := decimal.NewFromFloat(in.ClosingCosts)
	netProceeds := sale.Sub(payoff).Sub(closing)

	lines := []models.TransactionLine{
		cashLine(in, in.CashAccountID, netProceeds.InexactFloat64()),
	}
	if in.ClosingCosts > 0 {
		if in.CategoryAccountID == 0 {
			return nil, errors.New("有交割费用时必须指定费用科目")
		}
		lines = append(lines, categoryLine(in, in.CategoryAccountID, in.ClosingCosts))
	}
	if in.LoanPayoff > 0 {
		lines = append(lines, cashLine(in, *deal.LoanAccountID, in.LoanPayoff))
	}
	lines = append(lines, cashLine(in, *deal.AssetAccountID, sale.Neg().InexactFloat64()))
	return lines, nil
}

// cashLine 资金侧分录：不携带供应商/师傅等类别侧关联
func cashLine(in EntryInput, accountID uint, amount float64) models.TransactionLine {
	return models.TransactionLine{
		AccountID: accountID,
		Amount:    round2(amount),
		Purpose:   in.Purpose,
		DealID:    in.DealID,
		JobID:     in.JobID,
	}
}

// categoryLine 类别侧分录：携带全部归因关联
func categoryLine(in EntryInput, accountID uint, amount float64) models.TransactionLine {
	return models.TransactionLine{
		AccountID:     accountID,
		Amount:        round2(amount),
		Purpose:       in.Purpose,
		JobID:         in.JobID,
		VendorID:      in.VendorID,
		InstallerID:   in.InstallerID,
		DealID:        in.DealID,
		RehabCategory: in.RehabCategory,
		CostType:      in.CostType,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateEntry 构造并持久化一笔交易
// 校验、构造、落库在同一个数据库事务中完成，部分写入不可能发生
func CreateEntry(db *gorm.DB, in EntryInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		return nil, errors.New("交易日期不能为空")
	}
	if err := GuardDate(db, in.Date); err != nil {
		return nil, err
	}

	var deal *models.RealEstateDeal
	if in.DealID != nil {
		var d models.RealEstateDeal
		if err := db.First(&d, *in.DealID).Error; err != nil {
			return nil, errors.New("房产项目不存在")
		}
		deal = &d
	}

	lines, err := BuildLines(in, deal)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		Date:        in.Date,
		Description: in.Description,
		Lines:       lines,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&txn).Error
	}); err != nil {
		return nil, err
	}
	return &txn, nil
}
