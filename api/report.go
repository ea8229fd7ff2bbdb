package api

import (
	"strconv"
	"time"

	"ledger/database"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct{}

// NewReportHandler 创建报表处理器
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// PendingLine 待对账分录
type PendingLine struct {
	models.TransactionLine
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
}

// PendingResponse 待对账列表响应
type PendingResponse struct {
	PendingBank []PendingLine `json:"pending_bank"` // 资产账户待对账
	PendingCard []PendingLine `json:"pending_card"` // 负债账户待对账
}

// Pending 获取待对账分录
// @Summary 获取待对账分录
// @Description 获取全部未对账分录，按账户类型分桶：资产账户进待对账银行桶，负债账户进待对账信用卡桶
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=PendingResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/pending [get]
func (h *ReportHandler) Pending(c *gin.Context) {
	var lines []models.TransactionLine
	if err := database.DB.Preload("Account").
		Where("cleared = ?", false).
		Order("id ASC").Find(&lines).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	resp := PendingResponse{
		PendingBank: []PendingLine{},
		PendingCard: []PendingLine{},
	}
	for _, line := range lines {
		p := PendingLine{
			TransactionLine: line,
			AccountName:     line.Account.Name,
			AccountType:     line.Account.Type,
		}
		switch service.PendingBucket(line.Account.Type) {
		case service.PendingBucketBank:
			resp.PendingBank = append(resp.PendingBank, p)
		case service.PendingBucketCard:
			resp.PendingCard = append(resp.PendingCard, p)
		}
	}

	Success(c, resp)
}

// YTD 获取年度收支汇总
// @Summary 获取年度收支汇总
// @Description 按科目编码区间把当年分录归入工程/租金收入和工程/推广/管理/个人/出租支出。默认只统计已对账分录，include_pending=true 时包含未对账分录。
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认当年"
// @Param include_pending query bool false "是否包含未对账分录" default(false)
// @Success 200 {object} Response{data=service.YTDSummary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/ytd [get]
func (h *ReportHandler) YTD(c *gin.Context) {
	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 2000 || y > 2100 {
			BadRequest(c, "year格式错误，应为4位数字（如：2024）")
			return
		}
		year = y
	}

	startTime := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	endTime := time.Date(year, 12, 31, 23, 59, 59, 0, time.Local)

	query := database.DB.Model(&models.TransactionLine{}).
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Where("transactions.date >= ? AND transactions.date <= ?", startTime, endTime)
	if c.Query("include_pending") != "true" {
		query = query.Where("transaction_lines.cleared = ?", true)
	}

	var lines []models.TransactionLine
	if err := query.Find(&lines).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var accounts []models.Account
	if err := database.DB.Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	accountsByID := make(map[uint]models.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	Success(c, service.SummarizeYTD(year, lines, accountsByID))
}
