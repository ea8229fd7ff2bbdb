package api

import (
	"strconv"

	"ledger/database"
	"ledger/models"

	"github.com/gin-gonic/gin"
)

// DealHandler 房产项目处理器
type DealHandler struct{}

// NewDealHandler 创建房产项目处理器
func NewDealHandler() *DealHandler {
	return &DealHandler{}
}

// CreateDealRequest 创建房产项目请求
type CreateDealRequest struct {
	Nickname       string  `json:"nickname" binding:"required,max=100" example:"梧桐街38号"`
	Address        string  `json:"address" example:"梧桐街38号"`
	Type           string  `json:"type" binding:"required,oneof=flip rental" example:"flip"`
	AssetAccountID *uint   `json:"asset_account_id"`
	LoanAccountID  *uint   `json:"loan_account_id"`
	PurchasePrice  float64 `json:"purchase_price" binding:"omitempty,gt=0" example:"146000"`
	ARV            float64 `json:"arv" binding:"omitempty,gt=0" example:"225000"`
	LoanAmount     float64 `json:"loan_amount" binding:"omitempty,gt=0" example:"128223"`
	InterestRate   float64 `json:"interest_rate" binding:"omitempty,gt=0" example:"0.1075"`
}

// UpdateDealRequest 更新房产项目请求
type UpdateDealRequest struct {
	Nickname       string  `json:"nickname" binding:"omitempty,max=100"`
	Address        string  `json:"address"`
	Status         string  `json:"status" binding:"omitempty,oneof=active sold held"`
	AssetAccountID *uint   `json:"asset_account_id"`
	LoanAccountID  *uint   `json:"loan_account_id"`
	PurchasePrice  float64 `json:"purchase_price" binding:"omitempty,gt=0"`
	ARV            float64 `json:"arv" binding:"omitempty,gt=0"`
	LoanAmount     float64 `json:"loan_amount" binding:"omitempty,gt=0"`
	InterestRate   float64 `json:"interest_rate" binding:"omitempty,gt=0"`
}

// validateDealAccount 校验关联账户存在且类型正确
func validateDealAccount(accountID *uint, wantType, label string) string {
	if accountID == nil {
		return ""
	}
	var account models.Account
	if err := database.DB.First(&account, *accountID).Error; err != nil {
		return label + "账户不存在"
	}
	if account.Type != wantType {
		return label + "账户 " + account.Name + " 类型必须为 " + wantType
	}
	return ""
}

// Create 创建房产项目
// @Summary 创建房产项目
// @Description 创建翻售/出租房产项目。生命周期事件（购入、放款、出售等）要求项目已关联资产账户和贷款账户。
// @Tags 房产项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDealRequest true "项目信息"
// @Success 200 {object} Response{data=models.RealEstateDeal} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if msg := validateDealAccount(req.AssetAccountID, models.AccountTypeAsset, "资产"); msg != "" {
		BadRequest(c, msg)
		return
	}
	if msg := validateDealAccount(req.LoanAccountID, models.AccountTypeLiability, "贷款"); msg != "" {
		BadRequest(c, msg)
		return
	}

	deal := models.RealEstateDeal{
		Nickname:       req.Nickname,
		Address:        req.Address,
		Type:           req.Type,
		Status:         models.DealStatusActive,
		AssetAccountID: req.AssetAccountID,
		LoanAccountID:  req.LoanAccountID,
		PurchasePrice:  req.PurchasePrice,
		ARV:            req.ARV,
		LoanAmount:     req.LoanAmount,
		InterestRate:   req.InterestRate,
	}

	if err := database.DB.Create(&deal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建房产项目失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", deal)
}

// List 获取房产项目列表
// @Summary 获取房产项目列表
// @Tags 房产项目
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型筛选：flip/rental"
// @Param status query string false "状态筛选：active/sold/held"
// @Success 200 {object} Response{data=[]models.RealEstateDeal} "获取成功"
// @Router /api/v1/deals [get]
func (h *DealHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.RealEstateDeal{})
	if dealType := c.Query("type"); dealType != "" {
		query = query.Where("type = ?", dealType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var deals []models.RealEstateDeal
	if err := query.Order("id DESC").Find(&deals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, deals)
}

// Update 更新房产项目
// @Summary 更新房产项目
// @Tags 房产项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body UpdateDealRequest true "项目信息"
// @Success 200 {object} Response{data=models.RealEstateDeal} "更新成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var deal models.RealEstateDeal
	if err := database.DB.First(&deal, id).Error; err != nil {
		NotFound(c, "房产项目不存在")
		return
	}

	var req UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if msg := validateDealAccount(req.AssetAccountID, models.AccountTypeAsset, "资产"); msg != "" {
		BadRequest(c, msg)
		return
	}
	if msg := validateDealAccount(req.LoanAccountID, models.AccountTypeLiability, "贷款"); msg != "" {
		BadRequest(c, msg)
		return
	}

	updates := make(map[string]interface{})
	if req.Nickname != "" {
		updates["nickname"] = req.Nickname
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.AssetAccountID != nil {
		updates["asset_account_id"] = *req.AssetAccountID
	}
	if req.LoanAccountID != nil {
		updates["loan_account_id"] = *req.LoanAccountID
	}
	if req.PurchasePrice > 0 {
		updates["purchase_price"] = req.PurchasePrice
	}
	if req.ARV > 0 {
		updates["arv"] = req.ARV
	}
	if req.LoanAmount > 0 {
		updates["loan_amount"] = req.LoanAmount
	}
	if req.InterestRate > 0 {
		updates["interest_rate"] = req.InterestRate
	}

	if err := database.DB.Model(&deal).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	database.DB.First(&deal, deal.ID)
	SuccessWithMessage(c, "更新成功", deal)
}

// DealSummaryResponse 房产项目汇总响应
type DealSummaryResponse struct {
	DealID      uint    `json:"deal_id"`
	AssetTotal  float64 `json:"asset_total"`  // 资产账户分录合计（购入成本-出售冲销）
	LoanBalance float64 `json:"loan_balance"` // 贷款账户分录合计（负数为未还余额）
	Expenses    float64 `json:"expenses"`     // 关联支出合计（翻新、持有、利息等）
	Income      float64 `json:"income"`       // 关联收入合计
	CashFlow    float64 `json:"cash_flow"`    // 资金账户净流（不含资产/贷款账户）
}

// Summary 获取房产项目汇总
// @Summary 获取房产项目汇总
// @Description 按账户类型汇总项目关联分录，得到资产、贷款余额与累计收支
// @Tags 房产项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response{data=DealSummaryResponse} "获取成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/deals/{id}/summary [get]
func (h *DealHandler) Summary(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var deal models.RealEstateDeal
	if err := database.DB.First(&deal, id).Error; err != nil {
		NotFound(c, "房产项目不存在")
		return
	}

	var lines []models.TransactionLine
	if err := database.DB.Preload("Account").
		Where("deal_id = ?", deal.ID).Find(&lines).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	resp := DealSummaryResponse{DealID: deal.ID}
	for _, line := range lines {
		switch {
		case deal.AssetAccountID != nil && line.AccountID == *deal.AssetAccountID:
			resp.AssetTotal += line.Amount
		case deal.LoanAccountID != nil && line.AccountID == *deal.LoanAccountID:
			resp.LoanBalance += line.Amount
		case line.Account.Type == models.AccountTypeExpense:
			resp.Expenses += line.Amount
		case line.Account.Type == models.AccountTypeIncome:
			resp.Income += -line.Amount
		case line.Account.IsCashSide():
			resp.CashFlow += line.Amount
		}
	}

	Success(c, resp)
}
