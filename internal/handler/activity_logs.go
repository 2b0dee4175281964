package handler

import (
	"net/http"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/middleware"
	"makiti/internal/model"
	"makiti/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityLogsHandler serves the audit-trail endpoint. Any authenticated
// user may log; fetch and export are proprietaire-only, checked here because
// the route carries both access levels under one action switch.
type ActivityLogsHandler struct{ svc service.ActivityService }

func NewActivityLogsHandler(svc service.ActivityService) *ActivityLogsHandler {
	return &ActivityLogsHandler{svc: svc}
}

// Handle godoc
// @Summary      Journal d'activité
// @Description  Point d'entrée unique des actions log, fetch et export. fetch et export sont réservés au propriétaire.
// @Tags         activity
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ActivityRequest true "Action et champs associés"
// @Success      200 {object} dto.FetchLogsResponse
// @Failure      400 {object} apierror.APIError
// @Failure      403 {object} apierror.APIError
// @Router       /v1/activity-logs [post]
func (h *ActivityLogsHandler) Handle(c *gin.Context) {
	var req dto.ActivityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	claims := middleware.GetClaims(c)

	switch req.Action {
	case "log":
		resp, err := h.svc.Log(ctx, middleware.GetActor(c), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	case "fetch":
		if claims == nil || claims.Role != model.RoleProprietaire {
			c.JSON(http.StatusForbidden, apierror.New("Accès réservé au propriétaire"))
			return
		}
		resp, err := h.svc.Fetch(ctx, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case "export":
		if claims == nil || claims.Role != model.RoleProprietaire {
			c.JSON(http.StatusForbidden, apierror.New("Accès réservé au propriétaire"))
			return
		}
		if req.Format == "json" {
			resp, err := h.svc.ExportJSON(ctx, req)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, resp)
			return
		}
		resp, err := h.svc.ExportCSV(ctx, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Action inconnue: "+req.Action))
	}
}
