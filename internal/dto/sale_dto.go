package dto

import "github.com/shopspring/decimal"

// CartLineRequest is one product+size line of a checkout cart.
// Unit prices are re-read from the catalog server-side; clients never set them.
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Taille    string `json:"taille"     validate:"required,oneof=XS S M L XL XXL 3XL 4XL 5XL"`
	Quantite  int    `json:"quantite"   validate:"required,min=1"`
}

// CheckoutRequest records a completed cart as a sale.
type CheckoutRequest struct {
	Items        []CartLineRequest `json:"items"         validate:"required,min=1,dive"`
	ModePaiement string            `json:"mode_paiement" validate:"required,oneof=especes mobile_money carte credit"`
}

// SaleFilter is bound from the query string of GET /v1/ventes.
type SaleFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = no date filter
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleItemResponse struct {
	ProductID    string          `json:"product_id"`
	CodeModele   string          `json:"code_modele"`
	Nom          string          `json:"nom"`
	Taille       string          `json:"taille"`
	Quantite     int             `json:"quantite"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
	PrixTotal    decimal.Decimal `json:"prix_total"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	DateVente    string             `json:"date_vente"`
	MontantTotal decimal.Decimal    `json:"montant_total"`
	ModePaiement string             `json:"mode_paiement"`
	WorkPlanID   *string            `json:"work_plan_id"`
	Items        []SaleItemResponse `json:"items"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
