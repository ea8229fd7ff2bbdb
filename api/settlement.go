package api

import (
	"errors"
	"strconv"

	"ledger/database"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// SettlementHandler 信用卡核销处理器
type SettlementHandler struct{}

// NewSettlementHandler 创建信用卡核销处理器
func NewSettlementHandler() *SettlementHandler {
	return &SettlementHandler{}
}

// SettleRequest 核销请求
type SettleRequest struct {
	LineIDs []uint `json:"line_ids" binding:"required,min=1"`
}

// SettleResponse 核销响应
type SettleResponse struct {
	Result *service.SettlementResult `json:"result"`
	// 建议的还款转账：从银行账户向该信用卡转账核销合计金额
	TransferSuggestion gin.H `json:"transfer_suggestion"`
}

// Settle 批量核销信用卡分录
// @Summary 批量核销信用卡分录
// @Description 将选中的未核销信用卡分录批量标记为已核销。所有分录必须属于同一负债账户；跨账户选择会返回包含冲突账户名称的错误且不修改任何数据。返回核销合计金额，可直接用于发起还款转账。
// @Tags 信用卡核销
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettleRequest true "分录ID列表"
// @Success 200 {object} Response{data=SettleResponse} "核销成功"
// @Failure 400 {object} Response "校验失败（跨账户/已核销等）"
// @Failure 401 {object} Response "未授权"
// @Failure 409 {object} Response "期间已结账"
// @Router /api/v1/settlements [post]
func (h *SettlementHandler) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	result, err := service.SettleCardLines(database.DB, req.LineIDs)
	if err != nil {
		if errors.Is(err, service.ErrPeriodClosed) {
			Conflict(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "核销成功", SettleResponse{
		Result: result,
		TransferSuggestion: gin.H{
			"kind":          service.EntryTransfer,
			"to_account_id": result.AccountID,
			"amount":        result.Total,
		},
	})
}

// ListUnsettled 获取未核销分录
// @Summary 获取未核销的信用卡分录
// @Description 获取指定负债账户下尚未核销的分录列表
// @Tags 信用卡核销
// @Produce json
// @Security BearerAuth
// @Param account_id query int true "信用卡账户ID"
// @Success 200 {object} Response{data=[]models.TransactionLine} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/settlements/pending [get]
func (h *SettlementHandler) ListUnsettled(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if err != nil || accountID == 0 {
		BadRequest(c, "account_id参数必填")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, accountID).Error; err != nil {
		NotFound(c, "账户不存在")
		return
	}
	if account.Type != models.AccountTypeLiability {
		BadRequest(c, "账户 "+account.Name+" 不是负债账户")
		return
	}

	var lines []models.TransactionLine
	if err := database.DB.Where("account_id = ? AND cc_settled = ?", accountID, false).
		Order("id ASC").Find(&lines).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, lines)
}
