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

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// CreateProduct godoc
// @Summary      Créer un produit
// @Description  Crée un produit avec son stock initial par taille, en une seule transaction.
// @Tags         produits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Produit et stock initial"
// @Success      201 {object} dto.ProductResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/produits [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateProduct godoc
// @Summary      Modifier un produit
// @Description  Remplace les champs du produit; chaque taille soumise dans stock_initial est réinitialisée.
// @Tags         produits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID du produit"
// @Param        body body dto.UpdateProductRequest true "Nouveaux champs"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateProduct(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteProduct godoc
// @Summary      Désactiver un produit
// @Description  Désactivation logique: le produit disparaît du catalogue actif, l'historique des ventes le référence toujours.
// @Tags         produits
// @Security     BearerAuth
// @Param        id path string true "UUID du produit"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeactivateProduct(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProduct godoc
// @Summary      Détail d'un produit
// @Tags         produits
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du produit"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProducts godoc
// @Summary      Lister les produits
// @Description  Liste paginée, filtrable par statut actif, catégorie et recherche texte.
// @Tags         produits
// @Produce      json
// @Security     BearerAuth
// @Param        actif        query string false "false | all (défaut: actifs)"
// @Param        q            query string false "Recherche nom ou code modèle"
// @Param        categorie_id query string false "UUID de catégorie"
// @Param        page         query int    false "Page (défaut 1)"
// @Param        limit        query int    false "Par page (défaut 50)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/produits [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
