package service

import (
	"errors"
	"fmt"
	"time"

	"ledger/models"

	"gorm.io/gorm"
)

// ClearLine 对账：将指定分录标记为已对账
// newAmount 非空时以银行流水金额为准改写交易金额：
// 两侧分录同时改写并保留各自原符号，保证改写后合计仍为零。
// 多于两条分录的交易不支持改写金额，只能普通对账
func ClearLine(db *gorm.DB, transactionID, clickedLineID uint, newAmount *float64) (*models.Transaction, error) {
	var txn models.Transaction
	if err := db.Preload("Lines").First(&txn, transactionID).Error; err != nil {
		return nil, errors.New("交易不存在")
	}
	if err := GuardDate(db, txn.Date); err != nil {
		return nil, err
	}

	var clicked *models.TransactionLine
	for i := range txn.Lines {
		if txn.Lines[i].ID == clickedLineID {
			clicked = &txn.Lines[i]
			break
		}
	}
	if clicked == nil {
		return nil, errors.New("分录不属于该交易")
	}

	if newAmount != nil {
		if *newAmount <= 0 {
			return nil, errors.New("对账金额必须大于0")
		}
		if len(txn.Lines) != 2 {
			return nil, fmt.Errorf("交易包含 %d 条分录，改写金额仅支持两条分录的交易", len(txn.Lines))
		}
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if newAmount != nil {
			// 改写两侧金额，各自保留原符号
			for i := range txn.Lines {
				line := &txn.Lines[i]
				amount := round2(*newAmount)
				if line.Amount < 0 {
					amount = -amount
				}
				if err := tx.Model(&models.TransactionLine{}).
					Where("id = ?", line.ID).
					Update("amount", amount).Error; err != nil {
					return err
				}
				line.Amount = amount
			}
		}
		if err := tx.Model(&models.TransactionLine{}).
			Where("id = ?", clicked.ID).
			Updates(map[string]interface{}{
				"cleared":    true,
				"cleared_at": now,
			}).Error; err != nil {
			return err
		}
		clicked.Cleared = true
		clicked.ClearedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction 删除交易（级联删除分录），已结账期间内的交易不可删除
func DeleteTransaction(db *gorm.DB, transactionID uint) error {
	var txn models.Transaction
	if err := db.First(&txn, transactionID).Error; err != nil {
		return errors.New("交易不存在")
	}
	if err := GuardDate(db, txn.Date); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", txn.ID).
			Delete(&models.TransactionLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&txn).Error
	})
}
