package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one clothing article of the catalog. Stock is tracked per size
// in StockEntry rows owned by the product.
// Products are never hard-deleted: Actif=false removes them from sale while
// preserving sales history that references them.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodeModele   string          `gorm:"column:code_modele;uniqueIndex;not null"`
	Nom          string          `gorm:"index;not null"`
	PrixUnitaire decimal.Decimal `gorm:"column:prix_unitaire;type:decimal(12,0);not null"`
	CategorieID  *uuid.UUID      `gorm:"column:categorie_id;type:uuid;index"`
	ImageURL     *string         `gorm:"column:image_url"`
	Actif        bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categorie *Category    `gorm:"foreignKey:CategorieID"`
	Stock     []StockEntry `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// Category classifies products. Owner-managed.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nom       string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }
