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

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Checkout godoc
// @Summary      Enregistrer une vente
// @Description  Enregistre un panier multi-lignes: prix relus côté serveur, stock décrémenté conditionnellement, le tout en une transaction.
// @Tags         ventes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Panier"
// @Success      201 {object} dto.SaleResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventes [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSale godoc
// @Summary      Détail d'une vente
// @Tags         ventes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la vente"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventes/{id} [get]
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSales godoc
// @Summary      Lister les ventes
// @Description  Liste paginée, filtrable par date.
// @Tags         ventes
// @Produce      json
// @Security     BearerAuth
// @Param        date  query string false "Date YYYY-MM-DD"
// @Param        page  query int    false "Page (défaut 1)"
// @Param        limit query int    false "Par page (défaut 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/ventes [get]
func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
