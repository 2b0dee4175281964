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

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// ListCategories godoc
// @Summary      Lister les catégories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Router       /v1/categories [get]
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory godoc
// @Summary      Créer une catégorie
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CategoryRequest true "Nom"
// @Success      201 {object} dto.CategoryResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/categories [post]
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateCategory godoc
// @Summary      Renommer une catégorie
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la catégorie"
// @Param        body body dto.CategoryRequest true "Nouveau nom"
// @Success      200 {object} dto.CategoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categories/{id} [put]
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary      Supprimer une catégorie
// @Description  Les produits rattachés gardent un categorie_id nul, ils ne sont pas supprimés.
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "UUID de la catégorie"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categories/{id} [delete]
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
