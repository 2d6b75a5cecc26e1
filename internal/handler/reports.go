package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/report"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves /v1/reports.
type ReportHandler struct {
	Desk *service.FrontDesk
}

func NewReportHandler(desk *service.FrontDesk) *ReportHandler {
	if desk == nil {
		panic("nil front desk passed to NewReportHandler")
	}
	return &ReportHandler{Desk: desk}
}

// Summary handles GET /v1/reports/summary.
func (h *ReportHandler) Summary(c echo.Context) error {
	snap, err := report.LoadSnapshot(c.Request().Context(), h.Desk)
	if err != nil {
		return RespondError(c, err)
	}
	sum, err := report.Summarize(snap, h.Desk.Today())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

// Dashboard handles GET /v1/reports/dashboard: the home page strip plus the
// most recent reservations.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	snap, err := report.LoadSnapshot(c.Request().Context(), h.Desk)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"stats":  report.DashboardStats(snap, h.Desk.Today()),
		"recent": report.Recent(snap, report.RecentLimit),
	})
}

// Export handles GET /v1/reports/export and streams an XLSX workbook.
func (h *ReportHandler) Export(c echo.Context) error {
	snap, err := report.LoadSnapshot(c.Request().Context(), h.Desk)
	if err != nil {
		return RespondError(c, err)
	}
	today := h.Desk.Today()
	data, err := report.Workbook(snap, today)
	if err != nil {
		return RespondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "frontdesk-report-"+today+".xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
