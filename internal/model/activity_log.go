package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Action types recorded in the activity log.
var ActionTypes = []string{
	"login", "logout",
	"user_created", "user_updated", "user_deleted", "user_banned", "user_unbanned",
	"password_changed",
	"product_created", "product_updated", "product_deleted",
	"sale_created", "sale_deleted",
	"stock_updated",
	"category_created", "category_updated", "category_deleted",
}

// ActionLabels maps action types to the French labels used in CSV exports.
var ActionLabels = map[string]string{
	"login":            "Connexion",
	"logout":           "Déconnexion",
	"user_created":     "Utilisateur créé",
	"user_updated":     "Utilisateur modifié",
	"user_deleted":     "Utilisateur supprimé",
	"user_banned":      "Utilisateur désactivé",
	"user_unbanned":    "Utilisateur réactivé",
	"password_changed": "Mot de passe changé",
	"product_created":  "Produit créé",
	"product_updated":  "Produit modifié",
	"product_deleted":  "Produit supprimé",
	"sale_created":     "Vente créée",
	"sale_deleted":     "Vente supprimée",
	"stock_updated":    "Stock modifié",
	"category_created": "Catégorie créée",
	"category_updated": "Catégorie modifiée",
	"category_deleted": "Catégorie supprimée",
}

// ActivityLog is one append-only audit entry. Rows are written on behalf of
// the authenticated caller and never updated or deleted.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	UserName   string         `gorm:"column:user_name;not null"`
	ActionType string         `gorm:"column:action_type;type:varchar(30);not null;index"`
	EntityType *string        `gorm:"column:entity_type"`
	EntityID   *string        `gorm:"column:entity_id"`
	EntityName *string        `gorm:"column:entity_name"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

// ActionTypeValide reports whether t is a known action type.
func ActionTypeValide(t string) bool {
	for _, v := range ActionTypes {
		if v == t {
			return true
		}
	}
	return false
}
