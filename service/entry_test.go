package service

import (
	"testing"
	"time"

	"ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint {
	return &v
}

func sumLines(lines []models.TransactionLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	return sum
}

func testDeal() *models.RealEstateDeal {
	return &models.RealEstateDeal{
		ID:             1,
		Nickname:       "梧桐街38号",
		Type:           models.DealTypeFlip,
		AssetAccountID: uintPtr(10),
		LoanAccountID:  uintPtr(20),
	}
}

func TestBuildLines_Income(t *testing.T) {
	lines, err := BuildLines(EntryInput{
		Kind:              EntryIncome,
		Date:              time.Now(),
		Amount:            5000,
		CashAccountID:     1,
		CategoryAccountID: 2,
		Purpose:           models.PurposeBusiness,
	}, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// 收入：资金账户 +5000，收入科目 -5000
	assert.Equal(t, uint(1), lines[0].AccountID)
	assert.Equal(t, 5000.0, lines[0].Amount)
	assert.Equal(t, uint(2), lines[1].AccountID)
	assert.Equal(t, -5000.0, lines[1].Amount)
	assert.InDelta(t, 0, sumLines(lines), BalanceEpsilon)
}

func TestBuildLines_Expense(t *testing.T) {
	lines, err := BuildLines(EntryInput{
		Kind:              EntryExpense,
		Date:              time.Now(),
		Amount:            321.47,
		CashAccountID:     1,
		CategoryAccountID: 3,
		JobID:             uintPtr(7),
	}, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// 支出：支出科目 +amount，资金账户 -amount
	assert.Equal(t, uint(3), lines[0].AccountID)
	assert.Equal(t, 321.47, lines[0].Amount)
	assert.Equal(t, uint(1), lines[1].AccountID)
	assert.Equal(t, -321.47, lines[1].Amount)
	// 工程项目关联写到两侧分录
	require.NotNil(t, lines[0].JobID)
	assert.Equal(t, uint(7), *lines[0].JobID)
	require.NotNil(t, lines[1].JobID)
}

func TestBuildLines_Expense_MaterialRequiresVendor(t *testing.T) {
	_, err := BuildLines(EntryInput{
		Kind:              EntryExpense,
		Amount:            100,
		CashAccountID:     1,
		CategoryAccountID: 3,
		ExpenseKind:       ExpenseKindMaterial,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "供应商")

	lines, err := BuildLines(EntryInput{
		Kind:              EntryExpense,
		Amount:            100,
		CashAccountID:     1,
		CategoryAccountID: 3,
		ExpenseKind:       ExpenseKindMaterial,
		VendorID:          uintPtr(5),
	}, nil)
	require.NoError(t, err)
	// 供应商只落在类别侧分录
	require.NotNil(t, lines[0].VendorID)
	assert.Nil(t, lines[1].VendorID)
}

func TestBuildLines_Expense_LaborRequiresInstaller(t *testing.T) {
	_, err := BuildLines(EntryInput{
		Kind:              EntryExpense,
		Amount:            800,
		CashAccountID:     1,
		CategoryAccountID: 3,
		ExpenseKind:       ExpenseKindLabor,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "安装师傅")
}

func TestBuildLines_Transfer(t *testing.T) {
	lines, err := BuildLines(EntryInput{
		Kind:          EntryTransfer,
		Amount:        1200,
		CashAccountID: 1,
		ToAccountID:   2,
	}, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, -1200.0, lines[0].Amount)
	assert.Equal(t, 1200.0, lines[1].Amount)
}

func TestBuildLines_Transfer_SameAccount(t *testing.T) {
	_, err := BuildLines(EntryInput{
		Kind:          EntryTransfer,
		Amount:        1200,
		CashAccountID: 1,
		ToAccountID:   1,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不能相同")
}

func TestBuildLines_Acquisition(t *testing.T) {
	deal := testDeal()
	lines, err := BuildLines(EntryInput{
		Kind:              EntryAcquisition,
		CashAccountID:     1,
		CategoryAccountID: 30,
		DealID:            uintPtr(deal.ID),
		PurchasePrice:     146000,
		ClosingCosts:      18000,
		LoanAmount:        128223,
	}, deal)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	// 资产 +购房价
	assert.Equal(t, uint(10), lines[0].AccountID)
	assert.Equal(t, 146000.0, lines[0].Amount)
	// 交割费用 +费用
	assert.Equal(t, uint(30), lines[1].AccountID)
	assert.Equal(t, 18000.0, lines[1].Amount)
	// 贷款 -放款额
	assert.Equal(t, uint(20), lines[2].AccountID)
	assert.Equal(t, -128223.0, lines[2].Amount)
	// 资金账户 -首付现金 = -(146000+18000-128223)
	assert.Equal(t, uint(1), lines[3].AccountID)
	assert.Equal(t, -35777.0, lines[3].Amount)

	assert.InDelta(t, 0, sumLines(lines), BalanceEpsilon)
}

func TestBuildLines_Acquisition_AllCash(t *testing.T) {
	deal := testDeal()
	deal.LoanAccountID = nil

	// 全款无贷款：只有资产和资金账户两条分录
	lines, err := BuildLines(EntryInput{
		Kind:          EntryAcquisition,
		CashAccountID: 1,
		PurchasePrice: 90000,
	}, deal)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 90000.0, lines[0].Amount)
	assert.Equal(t, -90000.0, lines[1].Amount)
}

func TestBuildLines_Acquisition_MissingAssetAccount(t *testing.T) {
	deal := testDeal()
	deal.AssetAccountID = nil

	_, err := BuildLines(EntryInput{
		Kind:          EntryAcquisition,
		CashAccountID: 1,
		PurchasePrice: 90000,
	}, deal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未关联资产账户")
}

func TestBuildLines_LoanDraw(t *testing.T) {
	lines, err := BuildLines(EntryInput{
		Kind:          EntryLoanDraw,
		Amount:        25000,
		CashAccountID: 1,
	}, testDeal())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 25000.0, lines[0].Amount)
	assert.Equal(t, uint(20), lines[1].AccountID)
	assert.Equal(t, -25000.0, lines[1].Amount)
}

func TestBuildLines_Refund(t *testing.T) {
	lines, err := BuildLines(EntryInput{
		Kind:              EntryRefund,
		Amount:            450,
		CashAccountID:     1,
		CategoryAccountID: 30,
	}, testDeal())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	// 退款：资金账户 +，原费用科目 -
	assert.Equal(t, 450.0, lines[0].Amount)
	assert.Equal(t, -450.0, lines[1].Amount)
}

func TestBuildLines_Sale(t *testing.T) {
	deal := testDeal()
	lines, err := BuildLines(EntryInput{
		Kind:              EntrySale,
		CashAccountID:     1,
		CategoryAccountID: 30,
		SalePrice:         225000,
		LoanPayoff:        128223,
		ClosingCosts:      13500,
	}, deal)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	// 净到手款 = 225000 - 128223 - 13500
	assert.Equal(t, 83277.0, lines[0].Amount)
	assert.Equal(t, 13500.0, lines[1].Amount)
	// 贷款 +还清额
	assert.Equal(t, uint(20), lines[2].AccountID)
	assert.Equal(t, 128223.0, lines[2].Amount)
	// 资产 -售价
	assert.Equal(t, uint(10), lines[3].AccountID)
	assert.Equal(t, -225000.0, lines[3].Amount)

	assert.InDelta(t, 0, sumLines(lines), BalanceEpsilon)
}

func TestBuildLines_UnknownKind(t *testing.T) {
	_, err := BuildLines(EntryInput{Kind: "dividend", Amount: 1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未知的交易类型")
}

func TestBuildLines_ZeroAmount(t *testing.T) {
	_, err := BuildLines(EntryInput{
		Kind:              EntryIncome,
		Amount:            0,
		CashAccountID:     1,
		CategoryAccountID: 2,
	}, nil)
	require.Error(t, err)
}

func TestVerifyBalanced(t *testing.T) {
	balanced := []models.TransactionLine{
		{Amount: 100.10},
		{Amount: -100.10},
	}
	assert.NoError(t, VerifyBalanced(balanced))

	// 浮点累加误差在允许范围内
	fractional := []models.TransactionLine{
		{Amount: 0.1}, {Amount: 0.2}, {Amount: -0.3},
	}
	assert.NoError(t, VerifyBalanced(fractional))

	unbalanced := []models.TransactionLine{
		{Amount: 100}, {Amount: -99.90},
	}
	err := VerifyBalanced(unbalanced)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不平衡")

	single := []models.TransactionLine{{Amount: 0}}
	assert.Error(t, VerifyBalanced(single))
}
