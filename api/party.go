package api

import (
	"strconv"

	"ledger/database"
	"ledger/models"

	"github.com/gin-gonic/gin"
)

// PartyHandler 往来单位处理器（供应商/安装工/获客渠道）
type PartyHandler struct{}

// NewPartyHandler 创建往来单位处理器
func NewPartyHandler() *PartyHandler {
	return &PartyHandler{}
}

// PartyRequest 往来单位请求
type PartyRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"宏达建材"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
	Trade string `json:"trade" binding:"omitempty,max=50"` // 仅安装工使用，如水电/木工
	Notes string `json:"notes" binding:"omitempty,max=255"`
}

// CreateVendor 创建供应商
// @Summary 创建供应商
// @Tags 往来单位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PartyRequest true "供应商信息"
// @Success 200 {object} Response{data=models.Vendor} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/vendors [post]
func (h *PartyHandler) CreateVendor(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	vendor := models.Vendor{Name: req.Name, Phone: req.Phone, Notes: req.Notes}
	if err := database.DB.Create(&vendor).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建供应商失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", vendor)
}

// ListVendors 获取供应商列表
// @Summary 获取供应商列表
// @Tags 往来单位
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Vendor} "获取成功"
// @Router /api/v1/vendors [get]
func (h *PartyHandler) ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := database.DB.Order("name ASC").Find(&vendors).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, vendors)
}

// UpdateVendor 更新供应商
// @Summary 更新供应商
// @Tags 往来单位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Param request body PartyRequest true "供应商信息"
// @Success 200 {object} Response{data=models.Vendor} "更新成功"
// @Failure 404 {object} Response "供应商不存在"
// @Router /api/v1/vendors/{id} [put]
func (h *PartyHandler) UpdateVendor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var vendor models.Vendor
	if err := database.DB.First(&vendor, id).Error; err != nil {
		NotFound(c, "供应商不存在")
		return
	}

	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	vendor.Name = req.Name
	vendor.Phone = req.Phone
	vendor.Notes = req.Notes
	if err := database.DB.Save(&vendor).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", vendor)
}

// CreateInstaller 创建安装工
// @Summary 创建安装工
// @Tags 往来单位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PartyRequest true "安装工信息"
// @Success 200 {object} Response{data=models.Installer} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/installers [post]
func (h *PartyHandler) CreateInstaller(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	installer := models.Installer{Name: req.Name, Phone: req.Phone, Trade: req.Trade, Notes: req.Notes}
	if err := database.DB.Create(&installer).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建安装工失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", installer)
}

// ListInstallers 获取安装工列表
// @Summary 获取安装工列表
// @Tags 往来单位
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Installer} "获取成功"
// @Router /api/v1/installers [get]
func (h *PartyHandler) ListInstallers(c *gin.Context) {
	var installers []models.Installer
	if err := database.DB.Order("name ASC").Find(&installers).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, installers)
}

// UpdateInstaller 更新安装工
// @Summary 更新安装工
// @Tags 往来单位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "安装工ID"
// @Param request body PartyRequest true "安装工信息"
// @Success 200 {object} Response{data=models.Installer} "更新成功"
// @Failure 404 {object} Response "安装工不存在"
// @Router /api/v1/installers/{id} [put]
func (h *PartyHandler) UpdateInstaller(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var installer models.Installer
	if err := database.DB.First(&installer, id).Error; err != nil {
		NotFound(c, "安装工不存在")
		return
	}

	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	installer.Name = req.Name
	installer.Phone = req.Phone
	installer.Trade = req.Trade
	installer.Notes = req.Notes
	if err := database.DB.Save(&installer).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", installer)
}

// CreateLeadSource 创建获客渠道
// @Summary 创建获客渠道
// @Tags 往来单位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PartyRequest true "渠道信息"
// @Success 200 {object} Response{data=models.LeadSource} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/lead-sources [post]
func (h *PartyHandler) CreateLeadSource(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	source := models.LeadSource{Name: req.Name, Notes: req.Notes}
	if err := database.DB.Create(&source).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建获客渠道失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", source)
}

// ListLeadSources 获取获客渠道列表
// @Summary 获取获客渠道列表
// @Tags 往来单位
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.LeadSource} "获取成功"
// @Router /api/v1/lead-sources [get]
func (h *PartyHandler) ListLeadSources(c *gin.Context) {
	var sources []models.LeadSource
	if err := database.DB.Order("name ASC").Find(&sources).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, sources)
}
