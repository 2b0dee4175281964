package model

import (
	"time"

	"github.com/google/uuid"
)

// The two roles of the application. The proprietaire has full administrative
// access (user management, activity log, categories); the employe has
// operational access only.
const (
	RoleProprietaire = "proprietaire"
	RoleEmploye      = "employe"
)

// User is an account with its profile and role folded in. Exactly one role
// per user; role changes go through the admin endpoint only.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	NomComplet   string    `gorm:"column:nom_complet;not null"`
	Telephone    *string
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'employe'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// RoleValide reports whether r is one of the two application roles.
func RoleValide(r string) bool {
	return r == RoleProprietaire || r == RoleEmploye
}
