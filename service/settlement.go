package service

import (
	"errors"
	"fmt"
	"sort"

	"ledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementResult 信用卡核销结果
type SettlementResult struct {
	AccountID   uint    `json:"account_id"`
	AccountName string  `json:"account_name"`
	LineIDs     []uint  `json:"line_ids"`
	Total       float64 `json:"total"` // 核销分录绝对值之和，可用于后续还款转账
}

// SettleCardLines 批量核销信用卡分录
// 所有选中分录必须属于同一个负债账户且尚未核销；
// 任一校验失败时直接返回错误，不修改任何数据
func SettleCardLines(db *gorm.DB, lineIDs []uint) (*SettlementResult, error) {
	if len(lineIDs) == 0 {
		return nil, errors.New("请选择要核销的分录")
	}

	var lines []models.TransactionLine
	if err := db.Preload("Account").Where("id IN ?", lineIDs).Find(&lines).Error; err != nil {
		return nil, err
	}
	if len(lines) != len(lineIDs) {
		return nil, errors.New("部分分录不存在")
	}

	// 校验：未核销、同一账户、负债账户
	accountNames := make(map[uint]string)
	for _, line := range lines {
		if line.CCSettled {
			return nil, fmt.Errorf("分录 %d 已核销", line.ID)
		}
		accountNames[line.AccountID] = line.Account.Name
	}
	if len(accountNames) > 1 {
		names := make([]string, 0, len(accountNames))
		for _, name := range accountNames {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("所选分录分属不同账户，无法合并核销: %v", names)
	}
	account := lines[0].Account
	if account.Type != models.AccountTypeLiability {
		return nil, fmt.Errorf("账户 %s 不是负债账户，只有信用卡分录可以核销", account.Name)
	}

	// 结账保护：分录所属交易落在已结账期间的不可核销
	txnIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		txnIDs = append(txnIDs, line.TransactionID)
	}
	var txns []models.Transaction
	if err := db.Where("id IN ?", txnIDs).Find(&txns).Error; err != nil {
		return nil, err
	}
	for _, txn := range txns {
		if err := GuardDate(db, txn.Date); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Amount).Abs())
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.TransactionLine{}).
			Where("id IN ?", lineIDs).
			Update("cc_settled", true).Error
	}); err != nil {
		return nil, err
	}

	return &SettlementResult{
		AccountID:   account.ID,
		AccountName: account.Name,
		LineIDs:     lineIDs,
		Total:       total.InexactFloat64(),
	}, nil
}
