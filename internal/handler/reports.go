package handler

import (
	"net/http"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Summary godoc
// @Summary      Rapport de ventes
// @Description  Agrégats sur une plage de dates: total, moyenne, ventilation par jour, top produits.
// @Tags         rapports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "Début YYYY-MM-DD"
// @Param        to   query string true "Fin YYYY-MM-DD (incluse)"
// @Success      200 {object} dto.ReportResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/rapports [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV godoc
// @Summary      Export CSV du rapport
// @Description  Une ligne par jour de la plage plus une ligne TOTAL, en-têtes français.
// @Tags         rapports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string true "Début YYYY-MM-DD"
// @Param        to   query string true "Fin YYYY-MM-DD (incluse)"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Router       /v1/rapports/export [get]
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	raw, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rapport_`+filter.From+`_`+filter.To+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", raw)
}

func bindReportFilter(c *gin.Context) (dto.ReportFilter, bool) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return filter, false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Paramètres from et to requis au format YYYY-MM-DD"))
		return filter, false
	}
	return filter, true
}
