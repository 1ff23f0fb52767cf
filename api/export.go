package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type expenseLister interface {
	List(ctx context.Context, userID string) ([]models.Expense, error)
}

type budgetLister interface {
	List(ctx context.Context, userID string) ([]service.BudgetStatus, error)
}

// ExportHandler 导出处理器
type ExportHandler struct {
	expenses expenseLister
	budgets  budgetLister
}

// NewExportHandler 创建导出处理器
func NewExportHandler(expenses expenseLister, budgets budgetLister) *ExportHandler {
	return &ExportHandler{expenses: expenses, budgets: budgets}
}

// exportRange 可选的日期范围，闭区间
type exportRange struct {
	start, end time.Time
	label      string
}

func (r exportRange) contains(t time.Time) bool {
	if !r.start.IsZero() && t.Before(r.start) {
		return false
	}
	if !r.end.IsZero() && !t.Before(r.end) {
		return false
	}
	return true
}

// parseExportRange 解析 start_time / end_time，均为 YYYY-MM-DD，可省略
func parseExportRange(c *gin.Context) (exportRange, bool) {
	var r exportRange
	startStr := strings.TrimSpace(c.Query("start_time"))
	endStr := strings.TrimSpace(c.Query("end_time"))

	if startStr != "" {
		d, err := models.ParseDate(startStr)
		if err != nil {
			BadRequest(c, "start_time must be YYYY-MM-DD")
			return r, false
		}
		r.start = d.Time
	}
	if endStr != "" {
		d, err := models.ParseDate(endStr)
		if err != nil {
			BadRequest(c, "end_time must be YYYY-MM-DD")
			return r, false
		}
		r.end = d.AddDate(0, 0, 1)
	}
	if !r.start.IsZero() && !r.end.IsZero() && !r.start.Before(r.end) {
		BadRequest(c, "start_time must not be after end_time")
		return r, false
	}

	r.label = "all"
	if startStr != "" || endStr != "" {
		r.label = startStr + "_" + endStr
	}
	return r, true
}

func (h *ExportHandler) loadExpenses(c *gin.Context, r exportRange) ([]models.Expense, bool) {
	all, err := h.expenses.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return nil, false
	}
	expenses := make([]models.Expense, 0, len(all))
	for _, e := range all {
		if r.contains(e.Date) {
			expenses = append(expenses, e)
		}
	}
	return expenses, true
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出消费记录
// @Description 导出消费记录为 CSV 文件，可按日期范围筛选
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	r, ok := parseExportRange(c)
	if !ok {
		return
	}
	expenses, ok := h.loadExpenses(c, r)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时按 UTF-8 识别
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"ID", "Amount", "Category", "Date", "Created At"}); err != nil {
		InternalError(c, err)
		return
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			fmt.Sprintf("%.2f", e.Amount),
			e.Category,
			e.Date.UTC().Format(time.RFC3339),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", r.label)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSONResponse JSON 导出结果
type ExportJSONResponse struct {
	StartTime   string           `json:"start_time,omitempty"`
	EndTime     string           `json:"end_time,omitempty"`
	TotalCount  int              `json:"total_count"`
	TotalAmount float64          `json:"total_amount"`
	Expenses    []models.Expense `json:"expenses"`
}

// ExportJSON 导出消费记录为 JSON
// @Summary 导出消费记录为 JSON
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)"
// @Success 200 {object} ExportJSONResponse "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	r, ok := parseExportRange(c)
	if !ok {
		return
	}
	expenses, ok := h.loadExpenses(c, r)
	if !ok {
		return
	}

	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}

	Success(c, ExportJSONResponse{
		StartTime:   c.Query("start_time"),
		EndTime:     c.Query("end_time"),
		TotalCount:  len(expenses),
		TotalAmount: service.SumAmounts(amounts),
		Expenses:    expenses,
	})
}

// ExportExcel 导出消费记录与预算为 Excel
// @Summary 导出 Excel
// @Description 第一个工作表为消费记录，第二个工作表为预算对账结果
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	r, ok := parseExportRange(c)
	if !ok {
		return
	}
	expenses, ok := h.loadExpenses(c, r)
	if !ok {
		return
	}
	budgets, err := h.budgets.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	f, err := buildWorkbook(expenses, budgets)
	if err != nil {
		InternalError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("fintrack_%s.xlsx", r.label)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

const (
	expenseSheet = "Expenses"
	budgetSheet  = "Budgets"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

type sheetStyles struct {
	header, data, summary int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: center,
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{Alignment: center, Border: thinBorder}); err != nil {
		return s, err
	}
	if s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: center,
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	return s, nil
}

// buildWorkbook 生成包含消费记录与预算两个工作表的文件
func buildWorkbook(expenses []models.Expense, budgets []service.BudgetStatus) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(budgetSheet); err != nil {
		f.Close()
		return nil, err
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f}
	writeExpenseSheet(w, styles, expenses)
	writeBudgetSheet(w, styles, budgets)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter 记录第一个写入错误，之后的写入全部跳过
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) value(sheet, cell string, v interface{}) {
	if w.err == nil {
		w.err = w.f.SetCellValue(sheet, cell, v)
	}
}

func (w *sheetWriter) style(sheet, from, to string, style int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(sheet, from, to, style)
	}
}

func (w *sheetWriter) header(sheet string, styles sheetStyles, headers []string, widths []float64) {
	for i, h := range headers {
		col := string(rune('A' + i))
		cell := col + "1"
		w.value(sheet, cell, h)
		w.style(sheet, cell, cell, styles.header)
		if w.err == nil && i < len(widths) {
			w.err = w.f.SetColWidth(sheet, col, col, widths[i])
		}
	}
}

func writeExpenseSheet(w *sheetWriter, styles sheetStyles, expenses []models.Expense) {
	w.header(expenseSheet, styles,
		[]string{"ID", "Amount", "Category", "Date", "Created At"},
		[]float64{38, 12, 16, 22, 22})

	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		row := i + 2
		w.value(expenseSheet, fmt.Sprintf("A%d", row), e.ID)
		w.value(expenseSheet, fmt.Sprintf("B%d", row), e.Amount)
		w.value(expenseSheet, fmt.Sprintf("C%d", row), e.Category)
		w.value(expenseSheet, fmt.Sprintf("D%d", row), e.Date.UTC().Format("2006-01-02 15:04:05"))
		w.value(expenseSheet, fmt.Sprintf("E%d", row), e.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		w.style(expenseSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), styles.data)
		amounts[i] = e.Amount
	}

	summaryRow := len(expenses) + 2
	w.value(expenseSheet, fmt.Sprintf("A%d", summaryRow), "Total")
	w.value(expenseSheet, fmt.Sprintf("B%d", summaryRow), service.SumAmounts(amounts))
	w.value(expenseSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d records", len(expenses)))
	if w.err == nil {
		w.err = w.f.MergeCell(expenseSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	}
	w.style(expenseSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow), styles.summary)
}

func writeBudgetSheet(w *sheetWriter, styles sheetStyles, budgets []service.BudgetStatus) {
	w.header(budgetSheet, styles,
		[]string{"ID", "Category", "Limit", "Income %", "Spent", "Remaining"},
		[]float64{38, 16, 12, 10, 12, 12})

	for i, b := range budgets {
		row := i + 2
		w.value(budgetSheet, fmt.Sprintf("A%d", row), b.ID)
		w.value(budgetSheet, fmt.Sprintf("B%d", row), b.Category)
		w.value(budgetSheet, fmt.Sprintf("C%d", row), b.Limit)
		w.value(budgetSheet, fmt.Sprintf("D%d", row), b.IncomePercentage)
		w.value(budgetSheet, fmt.Sprintf("E%d", row), b.Spent)
		w.value(budgetSheet, fmt.Sprintf("F%d", row), b.Remaining)
		w.style(budgetSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.data)
	}
}
