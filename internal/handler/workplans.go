package handler

import (
	"net/http"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/infra"
	"makiti/internal/middleware"
	"makiti/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkPlansHandler struct{ svc service.WorkPlanService }

func NewWorkPlansHandler(svc service.WorkPlanService) *WorkPlansHandler {
	return &WorkPlansHandler{svc: svc}
}

// GetOrCreate godoc
// @Summary      Plan de travail du jour
// @Description  Retourne le plan de la date, en le créant et l'amorçant depuis le stock vendable au premier accès.
// @Tags         plans-travail
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Date YYYY-MM-DD"
// @Success      200 {object} dto.WorkPlanResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/plans-travail/{date} [get]
func (h *WorkPlansHandler) GetOrCreate(c *gin.Context) {
	resp, err := h.svc.GetOrCreate(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveLignes godoc
// @Summary      Enregistrer les quantités vendues
// @Description  Remplace quantite_vendue sur les lignes soumises et synchronise le stock, en une transaction.
// @Tags         plans-travail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du plan"
// @Param        body body dto.SaveLignesRequest true "Lignes modifiées"
// @Success      200 {object} dto.WorkPlanResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/plans-travail/{id}/lignes [put]
func (h *WorkPlansHandler) SaveLignes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.SaveLignesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveLignes(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cloture godoc
// @Summary      Clôturer le plan de travail
// @Description  Applique les éditions en attente, crée la vente du jour si quelque chose a été vendu, puis verrouille le plan.
// @Tags         plans-travail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du plan"
// @Param        body body dto.ClotureRequest false "Éditions en attente"
// @Success      200 {object} dto.ClotureResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/plans-travail/{id}/cloture [post]
func (h *WorkPlansHandler) Cloture(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ClotureRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cloture(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF godoc
// @Summary      Feuille de travail PDF
// @Description  Feuille A4 imprimable du plan, une ligne par produit et taille.
// @Tags         plans-travail
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID du plan"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/plans-travail/{id}/pdf [get]
func (h *WorkPlansHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	plan, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	raw, err := infra.GenerateWorkPlanPDF(plan)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="plan_`+plan.DateTravail+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}
