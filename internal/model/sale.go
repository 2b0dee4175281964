package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes accepted at checkout.
var ModesPaiement = []string{"especes", "mobile_money", "carte", "credit"}

// Sale is an immutable completed transaction. There is no update or delete
// path: reporting depends on sales history staying intact.
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DateVente    time.Time       `gorm:"column:date_vente;not null;index;default:now()"`
	MontantTotal decimal.Decimal `gorm:"column:montant_total;type:decimal(12,0);not null"`
	ModePaiement string          `gorm:"column:mode_paiement;type:varchar(20);not null"`
	WorkPlanID   *uuid.UUID      `gorm:"column:work_plan_id;type:uuid;index"`
	EmployeID    *uuid.UUID      `gorm:"column:employe_id;type:uuid"`
	CreatedAt    time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one product+size line of a Sale. Created with its sale,
// never mutated.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Taille       string          `gorm:"type:varchar(4);not null"`
	Quantite     int             `gorm:"not null;check:quantite > 0"`
	PrixUnitaire decimal.Decimal `gorm:"column:prix_unitaire;type:decimal(12,0);not null"`
	PrixTotal    decimal.Decimal `gorm:"column:prix_total;type:decimal(12,0);not null"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (SaleItem) TableName() string { return "sale_items" }

// ModePaiementValide reports whether m is an accepted payment mode.
func ModePaiementValide(m string) bool {
	for _, v := range ModesPaiement {
		if v == m {
			return true
		}
	}
	return false
}
