package service

import (
	"context"
	"errors"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/worker"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService implements the owner-only account management actions.
// The endpoint is action-discriminated; each action validates its own
// required fields so a missing one yields a 400 naming it.
type UserService interface {
	ListUsers(ctx context.Context) (*dto.ListUsersResponse, error)
	CreateUser(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.CreateUserResponse, error)
	DeleteUser(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.DeleteUserResponse, error)
	UpdateRole(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.UpdateRoleResponse, error)
	UpdateProfile(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.UpdateProfileResponse, error)
}

type userService struct {
	users      repository.UserRepository
	dispatcher *worker.Dispatcher
}

func NewUserService(users repository.UserRepository, dispatcher *worker.Dispatcher) UserService {
	return &userService{users: users, dispatcher: dispatcher}
}

func (s *userService) ListUsers(ctx context.Context) (*dto.ListUsersResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger les utilisateurs", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	return &dto.ListUsersResponse{Users: out}, nil
}

func (s *userService) CreateUser(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.CreateUserResponse, error) {
	if req.Email == "" {
		return nil, apierror.Validation("Le champ email est requis")
	}
	if req.Password == "" {
		return nil, apierror.Validation("Le champ password est requis")
	}
	if len(req.Password) < 6 {
		return nil, apierror.Validation("Le mot de passe doit contenir au moins 6 caractères")
	}
	if req.NomComplet == nil || *req.NomComplet == "" {
		return nil, apierror.Validation("Le champ nom_complet est requis")
	}
	role := req.Role
	if role == "" {
		role = model.RoleEmploye
	}
	if !model.RoleValide(role) {
		return nil, apierror.Validation("Rôle invalide")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Transient("Impossible de hacher le mot de passe", err)
	}

	user := &model.User{
		Email:        req.Email,
		NomComplet:   *req.NomComplet,
		Telephone:    req.Telephone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Un compte existe déjà avec cet email")
		}
		return nil, apierror.Transient("Impossible de créer l'utilisateur", err)
	}

	s.dispatchUserEvent(ctx, actor, "user_created", user, map[string]interface{}{"role": user.Role})
	return &dto.CreateUserResponse{Success: true, User: userToResponse(user)}, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.DeleteUserResponse, error) {
	userID, err := parseUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if userID == actor.ID {
		return nil, apierror.Validation("Impossible de supprimer votre propre compte")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.NotFound("Utilisateur introuvable")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return nil, apierror.Transient("Impossible de supprimer l'utilisateur", err)
	}

	s.dispatchUserEvent(ctx, actor, "user_deleted", user, nil)
	return &dto.DeleteUserResponse{Success: true}, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.UpdateRoleResponse, error) {
	userID, err := parseUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !model.RoleValide(req.NewRole) {
		return nil, apierror.Validation("Le champ new_role est requis et doit être proprietaire ou employe")
	}
	// An owner demoting themselves would lock the shop out of administration.
	if userID == actor.ID {
		return nil, apierror.Validation("Impossible de modifier votre propre rôle")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.NotFound("Utilisateur introuvable")
	}
	user.Role = req.NewRole
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apierror.Transient("Impossible de modifier le rôle", err)
	}

	s.dispatchUserEvent(ctx, actor, "user_updated", user, map[string]interface{}{"new_role": req.NewRole})
	return &dto.UpdateRoleResponse{Success: true, UserID: user.ID.String(), Role: user.Role}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor worker.Actor, req dto.AdminUserRequest) (*dto.UpdateProfileResponse, error) {
	userID, err := parseUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.NotFound("Utilisateur introuvable")
	}

	// Partial update: nil means leave unchanged.
	if req.NomComplet != nil {
		if *req.NomComplet == "" {
			return nil, apierror.Validation("Le nom complet ne peut pas être vide")
		}
		user.NomComplet = *req.NomComplet
	}
	if req.Telephone != nil {
		user.Telephone = req.Telephone
	}
	// update_profile may also carry a role change, under the same rules as
	// update_role.
	if req.NewRole != "" {
		if !model.RoleValide(req.NewRole) {
			return nil, apierror.Validation("Le champ new_role doit être proprietaire ou employe")
		}
		if userID == actor.ID {
			return nil, apierror.Validation("Impossible de modifier votre propre rôle")
		}
		user.Role = req.NewRole
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apierror.Transient("Impossible de modifier le profil", err)
	}

	s.dispatchUserEvent(ctx, actor, "user_updated", user, nil)
	return &dto.UpdateProfileResponse{Success: true, User: userToResponse(user)}, nil
}

func (s *userService) dispatchUserEvent(ctx context.Context, actor worker.Actor, actionType string, target *model.User, details map[string]interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
		UserID:     actor.ID.String(),
		UserName:   actor.Nom,
		ActionType: actionType,
		EntityType: strPtr("user"),
		EntityID:   strPtr(target.ID.String()),
		EntityName: strPtr(target.NomComplet),
		Details:    details,
	})
}

func parseUserID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apierror.Validation("Le champ user_id est requis")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.Validation("user_id invalide")
	}
	return id, nil
}
