package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ledger/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FeedTransaction 聚合服务返回的一条银行流水
type FeedTransaction struct {
	ExternalID  string  `json:"external_id"`
	Date        string  `json:"date"` // 格式 2006-01-02
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // 正数入账，负数出账
}

// SyncPage 聚合服务增量同步的一页结果
type SyncPage struct {
	Added      []FeedTransaction `json:"added"`
	NextCursor string            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

// AggregatorClient 银行数据聚合服务客户端
type AggregatorClient interface {
	SyncPage(ctx context.Context, itemID, cursor string) (*SyncPage, error)
}

// HTTPAggregatorClient 基于 HTTP 的聚合服务客户端
type HTTPAggregatorClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPAggregatorClient 创建聚合服务客户端
func NewHTTPAggregatorClient(baseURL, token string) *HTTPAggregatorClient {
	return &HTTPAggregatorClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SyncPage 拉取一页增量流水
func (c *HTTPAggregatorClient) SyncPage(ctx context.Context, itemID, cursor string) (*SyncPage, error) {
	payload, err := json.Marshal(map[string]string{
		"item_id": itemID,
		"cursor":  cursor,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transactions/sync", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("聚合服务返回 %d", resp.StatusCode)
	}

	var page SyncPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// BankSyncer 银行流水同步器
// 游标式增量同步：逐页拉取直到 has_more=false，游标落库供下次继续
type BankSyncer struct {
	db              *gorm.DB
	client          AggregatorClient
	importAccountID uint // 导入流水的对方科目（未分类导入）
	log             zerolog.Logger
}

// NewBankSyncer 创建银行流水同步器
func NewBankSyncer(db *gorm.DB, client AggregatorClient, importAccountID uint) *BankSyncer {
	return &BankSyncer{
		db:              db,
		client:          client,
		importAccountID: importAccountID,
		log:             log.With().Str("component", "banksync").Logger(),
	}
}

// Run 对全部已接入的银行 item 执行一轮增量同步
func (s *BankSyncer) Run(ctx context.Context) error {
	runID := uuid.NewString()
	runLog := s.log.With().Str("run_id", runID).Logger()

	var cursors []models.SyncCursor
	if err := s.db.Find(&cursors).Error; err != nil {
		return err
	}
	if len(cursors) == 0 {
		runLog.Info().Msg("没有接入的银行 item，跳过同步")
		return nil
	}

	var failed int
	for i := range cursors {
		if err := s.syncItem(ctx, runID, &cursors[i]); err != nil {
			failed++
			runLog.Error().Err(err).Str("item_id", cursors[i].ItemID).Msg("item 同步失败")
		}
	}
	runLog.Info().Int("items", len(cursors)).Int("failed", failed).Msg("同步完成")
	if failed > 0 {
		return fmt.Errorf("%d 个 item 同步失败", failed)
	}
	return nil
}

// syncItem 同步单个 item，逐页拉取直到没有更多数据
func (s *BankSyncer) syncItem(ctx context.Context, runID string, cursor *models.SyncCursor) error {
	itemLog := s.log.With().Str("run_id", runID).Str("item_id", cursor.ItemID).Logger()

	current := cursor.Cursor
	var imported, skipped int
	for {
		page, err := s.client.SyncPage(ctx, cursor.ItemID, current)
		if err != nil {
			return err
		}
		for _, feed := range page.Added {
			created, err := s.importFeedTransaction(cursor.AccountID, feed)
			if err != nil {
				itemLog.Warn().Err(err).Str("external_id", feed.ExternalID).Msg("流水导入失败，已跳过")
				skipped++
				continue
			}
			if created {
				imported++
			} else {
				skipped++
			}
		}
		current = page.NextCursor
		if !page.HasMore {
			break
		}
	}

	now := time.Now()
	if err := s.db.Model(cursor).Updates(map[string]interface{}{
		"cursor":      current,
		"last_run_at": now,
		"last_run_id": runID,
	}).Error; err != nil {
		return err
	}
	itemLog.Info().Int("imported", imported).Int("skipped", skipped).Msg("item 同步完成")
	return nil
}

// importFeedTransaction 把一条银行流水落成未对账的两条分录
// 入账流水记为收入形态，出账记为支出形态，对方科目统一挂未分类导入科目
func (s *BankSyncer) importFeedTransaction(bankAccountID uint, feed FeedTransaction) (bool, error) {
	if feed.ExternalID == "" {
		return false, errors.New("流水缺少外部流水号")
	}

	// 幂等：按外部流水号去重
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("external_id = ?", feed.ExternalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	date, err := time.ParseInLocation("2006-01-02", feed.Date, time.Local)
	if err != nil {
		return false, fmt.Errorf("流水日期格式错误: %s", feed.Date)
	}
	if err := GuardDate(s.db, date); err != nil {
		return false, err
	}

	in := EntryInput{
		Date:              date,
		Description:       feed.Description,
		CashAccountID:     bankAccountID,
		CategoryAccountID: s.importAccountID,
		Purpose:           models.PurposeBusiness,
	}
	if feed.Amount >= 0 {
		in.Kind = EntryIncome
		in.Amount = feed.Amount
	} else {
		in.Kind = EntryExpense
		in.Amount = -feed.Amount
	}

	lines, err := BuildLines(in, nil)
	if err != nil {
		return false, err
	}

	txn := models.Transaction{
		Date:        date,
		Description: feed.Description,
		ExternalID:  feed.ExternalID,
		Lines:       lines,
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&txn).Error
	}); err != nil {
		return false, err
	}
	return true, nil
}
