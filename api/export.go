package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"ledger/database"
	"ledger/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportLine 导出用的分录视图
type exportLine struct {
	models.TransactionLine
	Date           time.Time
	TxnDescription string
	AccountName    string
	AccountCode    string
	AccountType    string
}

func queryExportLines(c *gin.Context) ([]exportLine, string, string, bool) {
	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	if startTimeStr == "" || endTimeStr == "" {
		BadRequest(c, "请提供开始时间和结束时间")
		return nil, "", "", false
	}

	startTime, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}

	endTime, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}
	endTime = endTime.Add(24*time.Hour - time.Second)

	var lines []exportLine
	query := database.DB.Model(&models.TransactionLine{}).
		Select("transaction_lines.*, transactions.date, transactions.description AS txn_description, accounts.name AS account_name, accounts.code AS account_code, accounts.type AS account_type").
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Joins("JOIN accounts ON accounts.id = transaction_lines.account_id").
		Where("transactions.date >= ? AND transactions.date <= ?", startTime, endTime)
	if accountID := c.Query("account_id"); accountID != "" {
		query = query.Where("transaction_lines.account_id = ?", accountID)
	}

	if err := query.Order("transactions.date DESC, transaction_lines.id ASC").Scan(&lines).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, "", "", false
	}

	return lines, startTimeStr, endTimeStr, true
}

func clearedLabel(cleared bool) string {
	if cleared {
		return "已对账"
	}
	return "未对账"
}

// ExportCSV 导出分录为 CSV
// @Summary 导出交易分录
// @Description 根据时间范围导出交易分录为 CSV 文件，可按账户筛选
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Param account_id query int false "账户ID筛选"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	lines, startTimeStr, endTimeStr, ok := queryExportLines(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"分录ID", "日期", "摘要", "科目编码", "科目名称", "金额", "对账状态", "用途"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, line := range lines {
		row := []string{
			fmt.Sprintf("%d", line.ID),
			line.Date.Format("2006-01-02"),
			line.TxnDescription,
			line.AccountCode,
			line.AccountName,
			fmt.Sprintf("%.2f", line.Amount),
			clearedLabel(line.Cleared),
			line.Purpose,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("ledger_%s_%s.csv", startTimeStr, endTimeStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出分录为 Excel
// @Summary 导出交易分录为Excel
// @Description 根据时间范围导出交易分录为Excel文件，末行附合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Param account_id query int false "账户ID筛选"
// @Success 200 {file} file "Excel文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	lines, startTimeStr, endTimeStr, ok := queryExportLines(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易分录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 12)
	f.SetColWidth(sheetName, "H", "H", 10)

	headers := []string{"分录ID", "日期", "摘要", "科目编码", "科目名称", "金额", "对账状态", "用途"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i, line := range lines {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.TxnDescription)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), line.AccountCode)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), line.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), line.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), clearedLabel(line.Cleared))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), line.Purpose)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
		totalAmount += line.Amount
	}

	// 复式记账下全量导出合计应为零，单账户筛选时即为区间净流
	summaryRow := len(lines) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("共 %d 条分录", len(lines)))
	f.MergeCell(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("交易分录_%s_%s.xlsx", startTimeStr, endTimeStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
