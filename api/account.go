package api

import (
	"strconv"
	"strings"

	"ledger/database"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler 账户处理器
type AccountHandler struct{}

// NewAccountHandler 创建账户处理器
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest 创建账户请求
type CreateAccountRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"经营银行账户"`
	Code    string `json:"code" binding:"omitempty,numeric,max=10" example:"1000"`
	Type    string `json:"type" binding:"required,oneof=asset liability income expense" example:"asset"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=business personal mixed" example:"business"`
}

// UpdateAccountRequest 更新账户请求
type UpdateAccountRequest struct {
	Name    string `json:"name" binding:"omitempty,max=100"`
	Code    string `json:"code" binding:"omitempty,numeric,max=10"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=business personal mixed"`
}

// Create 创建账户
// @Summary 创建账户
// @Description 创建新的账户/科目。科目编码按区间决定报表分类，如 62005-62011 为出租维修支出。
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "账户名称不能为空")
		return
	}
	var existing models.Account
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "账户名称已存在")
		return
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = models.PurposeBusiness
	}
	account := models.Account{
		Name:    req.Name,
		Code:    req.Code,
		Type:    req.Type,
		Purpose: purpose,
		Active:  true,
	}

	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建账户失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", account)
}

// List 获取账户列表
// @Summary 获取账户列表
// @Description 获取账户列表，支持按类型筛选，默认仅返回启用账户
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Param type query string false "账户类型：asset/liability/income/expense"
// @Param include_inactive query bool false "是否包含已停用账户"
// @Success 200 {object} Response{data=[]models.Account} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Account{})

	if accountType := c.Query("type"); accountType != "" {
		query = query.Where("type = ?", accountType)
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var accounts []models.Account
	if err := query.Order("code ASC, id ASC").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, accounts)
}

// Update 更新账户
// @Summary 更新账户
// @Description 更新账户名称、编码或默认用途
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "账户ID"
// @Param request body UpdateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "账户不存在"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, id).Error; err != nil {
		NotFound(c, "账户不存在")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Code != "" {
		updates["code"] = req.Code
	}
	if req.Purpose != "" {
		updates["purpose"] = req.Purpose
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&account).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&account, account.ID)
	SuccessWithMessage(c, "更新成功", account)
}

// Deactivate 停用账户
// @Summary 停用账户
// @Description 账户只停用不删除，历史分录始终可以回溯
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Param id path int true "账户ID"
// @Success 200 {object} Response "停用成功"
// @Failure 404 {object} Response "账户不存在"
// @Router /api/v1/accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, id).Error; err != nil {
		NotFound(c, "账户不存在")
		return
	}

	if err := database.DB.Model(&account).Update("active", false).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "停用失败"))
		return
	}

	SuccessWithMessage(c, "停用成功", nil)
}

// AccountBalance 账户余额
type AccountBalance struct {
	AccountID   uint    `json:"account_id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Balance     float64 `json:"balance"`
	PendingDiff float64 `json:"pending_diff"` // 未对账分录合计（资产账户已计入余额）
}

// Balances 获取账户余额
// @Summary 获取账户余额
// @Description 资产账户余额包含全部分录（含未对账）；负债等其余类型只计已对账分录。
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]AccountBalance} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts/balances [get]
func (h *AccountHandler) Balances(c *gin.Context) {
	var accounts []models.Account
	if err := database.DB.Where("active = ?", true).Order("code ASC, id ASC").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var totals []service.AccountTotals
	if err := database.DB.Model(&models.TransactionLine{}).
		Select("account_id, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(CASE WHEN cleared THEN amount ELSE 0 END), 0) AS cleared_total").
		Group("account_id").
		Scan(&totals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	totalsByAccount := make(map[uint]service.AccountTotals, len(totals))
	for _, t := range totals {
		totalsByAccount[t.AccountID] = t
	}

	balances := make([]AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		t := totalsByAccount[account.ID]
		balances = append(balances, AccountBalance{
			AccountID:   account.ID,
			Name:        account.Name,
			Code:        account.Code,
			Type:        account.Type,
			Balance:     service.Balance(account.Type, t),
			PendingDiff: t.Total - t.ClearedTotal,
		})
	}

	Success(c, balances)
}
