package handler

import (
	"net/http"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/middleware"
	"makiti/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// ListStock godoc
// @Summary      Stock d'un produit
// @Description  Retourne les entrées de stock par taille du produit.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du produit"
// @Success      200 {array} dto.StockEntryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id}/stock [get]
func (h *StockHandler) ListStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjusterStock godoc
// @Summary      Ajuster le stock
// @Description  Applique un delta signé à la quantité actuelle d'une taille. Refusé si le résultat serait négatif.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du produit"
// @Param        body body dto.AjusterStockRequest true "Taille et delta"
// @Success      200 {object} dto.StockEntryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/produits/{id}/stock/ajuster [post]
func (h *StockHandler) AjusterStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.AjusterStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustQuantity(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetStock godoc
// @Summary      Réinitialiser le stock d'une taille
// @Description  Remet quantite_initiale et quantite_actuelle à la valeur soumise (réassort).
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du produit"
// @Param        body body dto.SetStockRequest true "Taille et quantité"
// @Success      200 {object} dto.StockEntryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/produits/{id}/stock [put]
func (h *StockHandler) SetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.SetStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetInitialQuantity(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAlertes godoc
// @Summary      Alertes de stock
// @Description  Produits actifs dont une taille est au niveau ou sous son seuil d'alerte.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlerteStockResponse
// @Router       /v1/stock/alertes [get]
func (h *StockHandler) ListAlertes(c *gin.Context) {
	resp, err := h.svc.ListAlertes(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
