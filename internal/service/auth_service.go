package service

import (
	"context"
	"time"

	"makiti/internal/apierror"
	"makiti/internal/config"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and refreshes JWT pairs.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users      repository.UserRepository
	cfg        *config.Config
	dispatcher *worker.Dispatcher
}

func NewAuthService(users repository.UserRepository, cfg *config.Config, dispatcher *worker.Dispatcher) AuthService {
	return &authService{users: users, cfg: cfg, dispatcher: dispatcher}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same message as a bad password so emails cannot be probed.
		return nil, apierror.Authentication("Email ou mot de passe incorrect")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.Authentication("Email ou mot de passe incorrect")
	}

	resp, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
			UserID:     user.ID.String(),
			UserName:   user.NomComplet,
			ActionType: "login",
			Details:    map[string]interface{}{"email": user.Email},
		})
	}
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := s.parseToken(req.RefreshToken)
	if err != nil {
		return nil, apierror.Authentication("Token de rafraîchissement invalide ou expiré")
	}
	if kind, _ := claims["kind"].(string); kind != "refresh" {
		return nil, apierror.Authentication("Token de rafraîchissement invalide ou expiré")
	}
	sub, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apierror.Authentication("Token de rafraîchissement invalide ou expiré")
	}

	// Role and profile are re-read so a role change takes effect at refresh.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.Authentication("Compte introuvable")
	}
	return s.tokenPair(user)
}

func (s *authService) tokenPair(user *model.User) (*dto.LoginResponse, error) {
	accessTTL := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	refreshTTL := time.Duration(s.cfg.JWTRefreshHours) * time.Hour
	now := time.Now()

	access, err := s.signToken(jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"nom":     user.NomComplet,
		"role":    user.Role,
		"kind":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(accessTTL).Unix(),
	})
	if err != nil {
		return nil, apierror.Transient("Impossible de générer le token", err)
	}

	refresh, err := s.signToken(jwt.MapClaims{
		"user_id": user.ID.String(),
		"kind":    "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(refreshTTL).Unix(),
	})
	if err != nil {
		return nil, apierror.Transient("Impossible de générer le token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTTL.Seconds()),
		User:         userToResponse(user),
	}, nil
}

func (s *authService) signToken(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parseToken(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		NomComplet: u.NomComplet,
		Telephone:  u.Telephone,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}
