package api

import (
	"strconv"
	"time"

	"ledger/database"
	"ledger/models"

	"github.com/gin-gonic/gin"
)

// JobHandler 工程项目处理器
type JobHandler struct{}

// NewJobHandler 创建工程项目处理器
func NewJobHandler() *JobHandler {
	return &JobHandler{}
}

// CreateJobRequest 创建工程项目请求
type CreateJobRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"张宅厨房翻新"`
	Address      string `json:"address" example:"建设路12号"`
	StartDate    string `json:"start_date" example:"2024-01-10"`
	LeadSourceID *uint  `json:"lead_source_id"`
}

// UpdateJobRequest 更新工程项目请求
type UpdateJobRequest struct {
	Name         string `json:"name" binding:"omitempty,max=100"`
	Address      string `json:"address"`
	Status       string `json:"status" binding:"omitempty,oneof=open closed"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	LeadSourceID *uint  `json:"lead_source_id"`
}

// Create 创建工程项目
// @Summary 创建工程项目
// @Tags 工程项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "项目信息"
// @Success 200 {object} Response{data=models.Job} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	job := models.Job{
		Name:         req.Name,
		Address:      req.Address,
		Status:       models.JobStatusOpen,
		LeadSourceID: req.LeadSourceID,
	}
	if req.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		job.StartDate = &t
	}

	if err := database.DB.Create(&job).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建项目失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", job)
}

// List 获取工程项目列表
// @Summary 获取工程项目列表
// @Tags 工程项目
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态筛选：open/closed"
// @Success 200 {object} Response{data=[]models.Job} "获取成功"
// @Router /api/v1/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Job{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []models.Job
	if err := query.Order("id DESC").Find(&jobs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, jobs)
}

// Update 更新工程项目
// @Summary 更新工程项目
// @Tags 工程项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body UpdateJobRequest true "项目信息"
// @Success 200 {object} Response{data=models.Job} "更新成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, id).Error; err != nil {
		NotFound(c, "项目不存在")
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.LeadSourceID != nil {
		updates["lead_source_id"] = *req.LeadSourceID
	}
	if req.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["start_date"] = t
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["end_date"] = t
	}

	if err := database.DB.Model(&job).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	database.DB.First(&job, job.ID)
	SuccessWithMessage(c, "更新成功", job)
}

// JobProfitResponse 项目利润响应
type JobProfitResponse struct {
	JobID   uint    `json:"job_id"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// Profit 获取项目利润
// @Summary 获取项目利润
// @Description 按账户类型汇总项目关联分录：收入科目分录取反合计为收入，支出科目分录合计为支出
// @Tags 工程项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response{data=JobProfitResponse} "获取成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/jobs/{id}/profit [get]
func (h *JobHandler) Profit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, id).Error; err != nil {
		NotFound(c, "项目不存在")
		return
	}

	// 收入科目侧分录为负数，取反后即为收入
	var income float64
	database.DB.Model(&models.TransactionLine{}).
		Joins("JOIN accounts ON accounts.id = transaction_lines.account_id").
		Where("transaction_lines.job_id = ? AND accounts.type = ?", job.ID, models.AccountTypeIncome).
		Select("COALESCE(SUM(-transaction_lines.amount), 0)").Scan(&income)

	var expense float64
	database.DB.Model(&models.TransactionLine{}).
		Joins("JOIN accounts ON accounts.id = transaction_lines.account_id").
		Where("transaction_lines.job_id = ? AND accounts.type = ?", job.ID, models.AccountTypeExpense).
		Select("COALESCE(SUM(transaction_lines.amount), 0)").Scan(&expense)

	Success(c, JobProfitResponse{
		JobID:   job.ID,
		Income:  income,
		Expense: expense,
		Profit:  income - expense,
	})
}
