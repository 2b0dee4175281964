package model

import (
	"time"

	"github.com/google/uuid"
)

// Tailles is the fixed set of clothing sizes the shop carries.
var Tailles = []string{"XS", "S", "M", "L", "XL", "XXL", "3XL", "4XL", "5XL"}

// DefaultSeuilAlerte is the reorder threshold applied when none is set.
const DefaultSeuilAlerte = 5

// Stock status levels derived from the total quantity of a product.
const (
	StockOut = "out" // 0 remaining
	StockLow = "low" // 0 < qty <= threshold
	StockOK  = "ok"  // above threshold
)

// StockStatus returns the three-level status for a quantity against a threshold.
func StockStatus(total, seuil int) string {
	switch {
	case total == 0:
		return StockOut
	case total <= seuil:
		return StockLow
	default:
		return StockOK
	}
}

// StockEntry is the quantity of one product in one size.
// (product_id, taille) is unique; quantite_actuelle never goes below zero.
type StockEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_stock_product_taille"`
	Taille           string    `gorm:"type:varchar(4);not null;uniqueIndex:idx_stock_product_taille"`
	QuantiteActuelle int       `gorm:"column:quantite_actuelle;not null;default:0;check:quantite_actuelle >= 0"`
	QuantiteInitiale int       `gorm:"column:quantite_initiale;not null;default:0"`
	SeuilAlerte      int       `gorm:"column:seuil_alerte;not null;default:5"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockEntry) TableName() string { return "stock" }

// TailleValide reports whether t is one of the enumerated sizes.
func TailleValide(t string) bool {
	for _, v := range Tailles {
		if v == t {
			return true
		}
	}
	return false
}
