package dto

import "github.com/shopspring/decimal"

// LigneEdit is one absolute-replace edit of quantite_vendue on a plan line.
type LigneEdit struct {
	LigneID        string `json:"ligne_id" validate:"required,uuid"`
	QuantiteVendue int    `json:"quantite_vendue" validate:"min=0"`
}

// SaveLignesRequest carries a batch of line edits for PUT /v1/plans-travail/:id/lignes.
type SaveLignesRequest struct {
	Lignes []LigneEdit `json:"lignes" validate:"required,min=1,dive"`
}

// ClotureRequest closes a work plan. Lignes carries pending unsaved edits
// that are applied before the plan is materialized into a sale.
type ClotureRequest struct {
	Lignes []LigneEdit `json:"lignes" validate:"omitempty,dive"`
}

type WorkPlanLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	CodeModele       string          `json:"code_modele"`
	Nom              string          `json:"nom"`
	Taille           string          `json:"taille"`
	QuantiteInitiale int             `json:"quantite_initiale"`
	QuantiteVendue   int             `json:"quantite_vendue"`
	QuantiteRestante int             `json:"quantite_restante"`
	PrixUnitaire     decimal.Decimal `json:"prix_unitaire"`
	PrixTotal        decimal.Decimal `json:"prix_total"`
}

type WorkPlanResponse struct {
	ID           string                 `json:"id"`
	DateTravail  string                 `json:"date_travail"`
	Cloture      bool                   `json:"cloture"`
	Lignes       []WorkPlanLineResponse `json:"lignes"`
	TotalVendu   int                    `json:"total_vendu"`
	MontantTotal decimal.Decimal        `json:"montant_total"`
}

// ClotureResponse reports the outcome of closing a plan. SaleID is nil when
// nothing was sold that day (no sale row is created then).
type ClotureResponse struct {
	WorkPlanID   string          `json:"work_plan_id"`
	Cloture      bool            `json:"cloture"`
	SaleID       *string         `json:"sale_id"`
	MontantTotal decimal.Decimal `json:"montant_total"`
}
