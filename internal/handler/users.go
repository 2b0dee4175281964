package handler

import (
	"net/http"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/middleware"
	"makiti/internal/service"

	"github.com/gin-gonic/gin"
)

// UsersHandler serves the action-discriminated account management endpoint.
// The route itself is gated to the proprietaire role; the switch below only
// routes between actions.
type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler { return &UsersHandler{svc: svc} }

// Manage godoc
// @Summary      Gestion des comptes
// @Description  Point d'entrée unique des actions list, create, delete, update_role et update_profile. Réservé au propriétaire.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdminUserRequest true "Action et champs associés"
// @Success      200 {object} dto.ListUsersResponse
// @Failure      400 {object} apierror.APIError
// @Failure      403 {object} apierror.APIError
// @Router       /v1/admin/utilisateurs [post]
func (h *UsersHandler) Manage(c *gin.Context) {
	var req dto.AdminUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	actor := middleware.GetActor(c)

	switch req.Action {
	case "list":
		resp, err := h.svc.ListUsers(ctx)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case "create":
		resp, err := h.svc.CreateUser(ctx, actor, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	case "delete":
		resp, err := h.svc.DeleteUser(ctx, actor, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case "update_role":
		resp, err := h.svc.UpdateRole(ctx, actor, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case "update_profile":
		resp, err := h.svc.UpdateProfile(ctx, actor, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Action inconnue: "+req.Action))
	}
}
