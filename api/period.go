package api

import (
	"log"

	"ledger/config"
	"ledger/database"
	"ledger/middleware"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// PeriodHandler 结账期间处理器
type PeriodHandler struct {
	emailService *service.EmailService
}

// NewPeriodHandler 创建结账期间处理器
func NewPeriodHandler(cfg *config.Config) *PeriodHandler {
	return &PeriodHandler{
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// PeriodStatusResponse 期间状态响应
type PeriodStatusResponse struct {
	NextCloseable string                `json:"next_closeable"` // 下一个可结账期间，无可结账期间时为空
	History       []models.ClosedPeriod `json:"history"`
}

// Status 获取结账状态
// @Summary 获取结账状态
// @Description 获取结账历史和下一个可结账期间。期间严格按自然月顺序结账，下一个可结账期间由服务端计算，客户端不可指定其他月份。
// @Tags 结账
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=PeriodStatusResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/periods [get]
func (h *PeriodHandler) Status(c *gin.Context) {
	var history []models.ClosedPeriod
	// year_month 是 MySQL 保留字，裸排序片段必须加反引号
	if err := database.DB.Order("`year_month` DESC").Find(&history).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	next, err := service.NextCloseablePeriod(database.DB)
	if err != nil {
		// 尚无交易等情况不算错误，只是没有可结账期间
		next = ""
	}

	Success(c, PeriodStatusResponse{
		NextCloseable: next,
		History:       history,
	})
}

// ClosePeriodRequest 结账请求
type ClosePeriodRequest struct {
	// 客户端界面上显示的待结账期间，与服务端计算不一致时返回冲突（客户端数据过期）
	Expected string `json:"expected" example:"2024-03"`
	Notes    string `json:"notes" example:"3月账已核对完毕"`
}

// Close 结账
// @Summary 结账
// @Description 结算下一个可结账期间（最近结账月份的下一个月）。结账后该月及之前的交易全部锁定。
// @Tags 结账
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClosePeriodRequest true "结账信息"
// @Success 200 {object} Response{data=models.ClosedPeriod} "结账成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "期间不可结账"
// @Router /api/v1/periods/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	var req ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	closedBy := middleware.GetCurrentUsername(c)
	period, err := service.ClosePeriod(database.DB, closedBy, req.Notes, req.Expected)
	if err != nil {
		Conflict(c, err.Error())
		return
	}

	// 结账通知邮件失败不影响结账本身
	if h.emailService != nil {
		if err := h.emailService.SendPeriodClosedEmail(period); err != nil {
			log.Printf("结账通知邮件发送失败: %v", err)
		}
	}

	SuccessWithMessage(c, "结账成功", period)
}

// ReopenPeriodRequest 反结账请求
type ReopenPeriodRequest struct {
	YearMonth string `json:"year_month" binding:"required" example:"2024-03"`
	Reason    string `json:"reason" binding:"required" example:"漏记了一笔供应商退款"`
}

// Reopen 反结账
// @Summary 反结账
// @Description 重新打开最近结账的期间，必须填写原因。原因为空时请求在任何写入发生前被拒绝。
// @Tags 结账
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReopenPeriodRequest true "反结账信息"
// @Success 200 {object} Response "反结账成功"
// @Failure 400 {object} Response "请求参数错误或原因为空"
// @Failure 409 {object} Response "期间不可反结"
// @Router /api/v1/periods/reopen [post]
func (h *PeriodHandler) Reopen(c *gin.Context) {
	var req ReopenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := service.ReopenPeriod(database.DB, req.YearMonth, req.Reason); err != nil {
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "反结账成功", nil)
}
