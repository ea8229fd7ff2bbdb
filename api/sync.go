package api

import (
	"context"
	"time"

	"ledger/config"
	"ledger/database"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// SyncHandler 银行数据同步处理器
type SyncHandler struct {
	cfg *config.Config
}

// NewSyncHandler 创建银行数据同步处理器
func NewSyncHandler(cfg *config.Config) *SyncHandler {
	return &SyncHandler{cfg: cfg}
}

// RegisterItemRequest 接入银行 item 请求
type RegisterItemRequest struct {
	ItemID    string `json:"item_id" binding:"required,max=64" example:"item-chase-0001"`
	AccountID uint   `json:"account_id" binding:"required" example:"1"`
}

// RegisterItem 接入银行 item
// @Summary 接入银行 item
// @Description 登记一个聚合服务 item 与入账银行账户的对应关系，之后的定时同步会覆盖该 item
// @Tags 银行同步
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterItemRequest true "item 信息"
// @Success 200 {object} Response{data=models.SyncCursor} "接入成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/sync/items [post]
func (h *SyncHandler) RegisterItem(c *gin.Context) {
	var req RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var account models.Account
	if err := database.DB.First(&account, req.AccountID).Error; err != nil {
		BadRequest(c, "入账账户不存在")
		return
	}
	if account.Type != models.AccountTypeAsset && account.Type != models.AccountTypeLiability {
		BadRequest(c, "账户 "+account.Name+" 不是资金账户，不能接入银行同步")
		return
	}

	var existing models.SyncCursor
	if err := database.DB.Where("item_id = ?", req.ItemID).First(&existing).Error; err == nil {
		BadRequest(c, "item 已接入")
		return
	}

	cursor := models.SyncCursor{
		ItemID:    req.ItemID,
		AccountID: req.AccountID,
	}
	if err := database.DB.Create(&cursor).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "接入失败"))
		return
	}

	SuccessWithMessage(c, "接入成功", cursor)
}

// ListItems 获取已接入的银行 item
// @Summary 获取已接入的银行 item
// @Tags 银行同步
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.SyncCursor} "获取成功"
// @Router /api/v1/sync/items [get]
func (h *SyncHandler) ListItems(c *gin.Context) {
	var cursors []models.SyncCursor
	if err := database.DB.Order("id ASC").Find(&cursors).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, cursors)
}

// Run 手动触发一轮同步
// @Summary 手动触发银行数据同步
// @Description 立即对全部已接入的 item 执行一轮增量同步，不等待定时任务
// @Tags 银行同步
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "同步完成"
// @Failure 400 {object} Response "同步未启用"
// @Failure 500 {object} Response "部分 item 同步失败"
// @Router /api/v1/sync/run [post]
func (h *SyncHandler) Run(c *gin.Context) {
	if !h.cfg.BankSync.Enabled {
		BadRequest(c, "银行同步未启用")
		return
	}

	client := service.NewHTTPAggregatorClient(h.cfg.BankSync.BaseURL, h.cfg.BankSync.Token)
	syncer := service.NewBankSyncer(database.DB, client, h.cfg.BankSync.ImportAccountID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	if err := syncer.Run(ctx); err != nil {
		InternalError(c, SafeErrorMessage(err, "同步失败"))
		return
	}

	SuccessWithMessage(c, "同步完成", nil)
}
