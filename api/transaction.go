package api

import (
	"errors"
	"strconv"
	"time"

	"ledger/database"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	Kind        string `json:"kind" binding:"required" example:"expense"` // income/expense/transfer/acquisition/loan_draw/holding_cost/interest/refund/sale
	Date        string `json:"date" binding:"required" example:"2024-01-15"`
	Description string `json:"description" example:"厨房台面材料"`
	Purpose     string `json:"purpose" binding:"omitempty,oneof=business personal mixed" example:"business"`

	Amount            float64 `json:"amount" example:"1280.50"`
	CashAccountID     uint    `json:"cash_account_id" example:"1"`
	CategoryAccountID uint    `json:"category_account_id" example:"9"`
	ToAccountID       uint    `json:"to_account_id"` // 转账目标账户

	JobID         *uint  `json:"job_id"`
	VendorID      *uint  `json:"vendor_id"`
	InstallerID   *uint  `json:"installer_id"`
	DealID        *uint  `json:"deal_id"`
	RehabCategory string `json:"rehab_category"`
	CostType      string `json:"cost_type"`
	ExpenseKind   string `json:"expense_kind" binding:"omitempty,oneof=general material labor"`

	// 房产生命周期参数
	PurchasePrice float64 `json:"purchase_price"`
	LoanAmount    float64 `json:"loan_amount"`
	ClosingCosts  float64 `json:"closing_costs"`
	SalePrice     float64 `json:"sale_price"`
	LoanPayoff    float64 `json:"loan_payoff"`
}

// TransactionListRequest 交易列表请求
type TransactionListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	AccountID uint   `form:"account_id"`
	JobID     uint   `form:"job_id"`
	DealID    uint   `form:"deal_id"`
	StartTime string `form:"start_time" example:"2024-01-01"`
	EndTime   string `form:"end_time" example:"2024-12-31"`
}

// Create 创建交易
// @Summary 创建交易
// @Description 按交易类型构造复式分录并原子落库。收入：资金+/科目-；支出：科目+/资金-；转账：转出-/转入+；房产生命周期事件自动组合资产、贷款、费用、资金多条分录，落库前复核合计为零。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误或分录不平衡"
// @Failure 401 {object} Response "未授权"
// @Failure 409 {object} Response "期间已结账"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = models.PurposeBusiness
	}

	in := service.EntryInput{
		Kind:              req.Kind,
		Date:              date,
		Description:       req.Description,
		Purpose:           purpose,
		Amount:            req.Amount,
		CashAccountID:     req.CashAccountID,
		CategoryAccountID: req.CategoryAccountID,
		ToAccountID:       req.ToAccountID,
		JobID:             req.JobID,
		VendorID:          req.VendorID,
		InstallerID:       req.InstallerID,
		DealID:            req.DealID,
		RehabCategory:     req.RehabCategory,
		CostType:          req.CostType,
		ExpenseKind:       req.ExpenseKind,
		PurchasePrice:     req.PurchasePrice,
		LoanAmount:        req.LoanAmount,
		ClosingCosts:      req.ClosingCosts,
		SalePrice:         req.SalePrice,
		LoanPayoff:        req.LoanPayoff,
	}

	txn, err := service.CreateEntry(database.DB, in)
	if err != nil {
		if errors.Is(err, service.ErrPeriodClosed) {
			Conflict(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "创建成功", txn)
}

// List 获取交易列表（总账）
// @Summary 获取交易列表
// @Description 获取交易及分录列表，支持按账户、项目、房产和日期范围筛选，支持分页
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param account_id query int false "账户筛选"
// @Param job_id query int false "工程项目筛选"
// @Param deal_id query int false "房产项目筛选"
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{})

	// 按分录关联筛选
	if req.AccountID != 0 || req.JobID != 0 || req.DealID != 0 {
		sub := database.DB.Model(&models.TransactionLine{}).Select("transaction_id")
		if req.AccountID != 0 {
			sub = sub.Where("account_id = ?", req.AccountID)
		}
		if req.JobID != 0 {
			sub = sub.Where("job_id = ?", req.JobID)
		}
		if req.DealID != 0 {
			sub = sub.Where("deal_id = ?", req.DealID)
		}
		query = query.Where("id IN (?)", sub)
	}

	// 日期范围筛选
	if req.StartTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartTime, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndTime, time.Local); err == nil {
			// 包含结束日期当天
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	// 获取总数
	var total int64
	query.Count(&total)

	// 获取列表
	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Lines").Order("date DESC, id DESC").
		Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get 获取单笔交易
// @Summary 获取单笔交易
// @Description 根据ID获取交易及其全部分录
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var txn models.Transaction
	if err := database.DB.Preload("Lines").First(&txn, id).Error; err != nil {
		NotFound(c, "交易不存在")
		return
	}

	Success(c, txn)
}

// ClearRequest 对账请求
type ClearRequest struct {
	LineID    uint     `json:"line_id" binding:"required"`
	NewAmount *float64 `json:"new_amount"` // 以银行流水金额为准改写交易金额，可选
}

// Clear 对账
// @Summary 分录对账
// @Description 将指定分录标记为已对账。传入 new_amount 时按银行流水金额改写交易两侧分录并保留各自符号，改写后合计仍为零。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body ClearRequest true "对账信息"
// @Success 200 {object} Response{data=models.Transaction} "对账成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "期间已结账"
// @Router /api/v1/transactions/{id}/clear [post]
func (h *TransactionHandler) Clear(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	txn, err := service.ClearLine(database.DB, uint(id), req.LineID, req.NewAmount)
	if err != nil {
		if errors.Is(err, service.ErrPeriodClosed) {
			Conflict(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "对账成功", txn)
}

// Delete 删除交易
// @Summary 删除交易
// @Description 级联删除交易及其全部分录，已结账期间内的交易不可删除
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "交易不存在"
// @Failure 409 {object} Response "期间已结账"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := service.DeleteTransaction(database.DB, uint(id)); err != nil {
		if errors.Is(err, service.ErrPeriodClosed) {
			Conflict(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
