package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger/models"

	"gorm.io/gorm"
)

// ErrPeriodClosed 交易日期落在已结账期间
var ErrPeriodClosed = errors.New("期间已结账，禁止修改该期间内的交易")

// NextCloseablePeriod 计算下一个可结账的期间
// 期间严格按自然月顺序结账：永远是最近一次结账月份的下一个月，
// 从未结账时取最早一笔交易所在的月份
func NextCloseablePeriod(db *gorm.DB) (string, error) {
	var latest models.ClosedPeriod
	err := db.Where("latest = ?", true).First(&latest).Error
	if err == nil {
		t, perr := time.ParseInLocation("2006-01", latest.YearMonth, time.Local)
		if perr != nil {
			return "", fmt.Errorf("结账记录期间格式异常: %s", latest.YearMonth)
		}
		return t.AddDate(0, 1, 0).Format("2006-01"), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// 尚未结过账：从最早交易所在月开始
	var first models.Transaction
	if err := db.Order("date ASC").First(&first).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("尚无交易，没有可结账的期间")
		}
		return "", err
	}
	return first.Date.Format("2006-01"), nil
}

// ClosePeriod 结账
// 只结算计算出的下一个期间；expected 非空且与之不一致时说明客户端数据过期，返回冲突
func ClosePeriod(db *gorm.DB, closedBy, notes, expected string) (*models.ClosedPeriod, error) {
	if strings.TrimSpace(closedBy) == "" {
		return nil, errors.New("结账人不能为空")
	}

	target, err := NextCloseablePeriod(db)
	if err != nil {
		return nil, err
	}
	if expected != "" && expected != target {
		return nil, fmt.Errorf("期间 %s 不可结账，当前应结账期间为 %s", expected, target)
	}

	period := models.ClosedPeriod{
		YearMonth: target,
		ClosedAt:  time.Now(),
		ClosedBy:  closedBy,
		Notes:     notes,
		Latest:    true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ClosedPeriod{}).
			Where("latest = ?", true).
			Update("latest", false).Error; err != nil {
			return err
		}
		// 反结过的期间重新结账时复用原记录，year_month 上有唯一索引
		var existing models.ClosedPeriod
		ferr := tx.Where("`year_month` = ?", target).First(&existing).Error
		if ferr == nil {
			period.ID = existing.ID
			period.CreatedAt = existing.CreatedAt
			return tx.Model(&models.ClosedPeriod{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"closed_at":     period.ClosedAt,
					"closed_by":     period.ClosedBy,
					"notes":         period.Notes,
					"latest":        true,
					"reopened":      false,
					"reopen_reason": "",
				}).Error
		}
		if !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ferr
		}
		return tx.Create(&period).Error
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// ReopenPeriod 反结账
// 只允许反结最近一次结账的期间，且必须填写原因
func ReopenPeriod(db *gorm.DB, yearMonth, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.New("反结账必须填写原因")
	}

	var latest models.ClosedPeriod
	if err := db.Where("latest = ?", true).First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("没有已结账的期间")
		}
		return err
	}
	if latest.YearMonth != yearMonth {
		return fmt.Errorf("只能反结最近结账的期间 %s", latest.YearMonth)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ClosedPeriod{}).
			Where("id = ?", latest.ID).
			Updates(map[string]interface{}{
				"reopened":      true,
				"reopen_reason": reason,
				"latest":        false,
			}).Error; err != nil {
			return err
		}
		// 上一个期间重新成为最近结账期间
		prev, perr := time.ParseInLocation("2006-01", latest.YearMonth, time.Local)
		if perr != nil {
			return perr
		}
		// year_month 是 MySQL 保留字，裸 SQL 片段必须加反引号
		prevMonth := prev.AddDate(0, -1, 0).Format("2006-01")
		return tx.Model(&models.ClosedPeriod{}).
			Where("`year_month` = ? AND reopened = ?", prevMonth, false).
			Update("latest", true).Error
	})
}

// GuardDate 结账保护
// 日期落在最近结账期间或之前的月份时返回 ErrPeriodClosed
func GuardDate(db *gorm.DB, date time.Time) error {
	var latest models.ClosedPeriod
	if err := db.Where("latest = ?", true).First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if date.Format("2006-01") <= latest.YearMonth {
		return ErrPeriodClosed
	}
	return nil
}
