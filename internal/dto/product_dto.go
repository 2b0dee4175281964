package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/produits.
type ProductFilter struct {
	Actif     string `form:"actif"` // "false" = inactifs, "all" = tous, default = actifs
	Recherche string `form:"q"`     // matches nom or code_modele
	Categorie string `form:"categorie_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// CreateProductRequest creates a product together with its initial stock.
// StockInitial maps size → quantity; only sizes with quantity > 0 get a
// stock row.
type CreateProductRequest struct {
	CodeModele   string           `json:"code_modele" validate:"required"`
	Nom          string           `json:"nom"          validate:"required"`
	PrixUnitaire *decimal.Decimal `json:"prix_unitaire" validate:"omitempty,min=0"`
	CategorieID  *string          `json:"categorie_id"  validate:"omitempty,uuid"`
	ImageURL     *string          `json:"image_url"`
	StockInitial map[string]int   `json:"stock_initial"`
}

// UpdateProductRequest fully replaces the mutable fields of a product.
// Every size present in StockInitial is overwritten: both quantite_initiale
// and quantite_actuelle are reset to the submitted value.
type UpdateProductRequest struct {
	CodeModele   string           `json:"code_modele" validate:"required"`
	Nom          string           `json:"nom"          validate:"required"`
	PrixUnitaire *decimal.Decimal `json:"prix_unitaire" validate:"omitempty,min=0"`
	CategorieID  *string          `json:"categorie_id"  validate:"omitempty,uuid"`
	ImageURL     *string          `json:"image_url"`
	StockInitial map[string]int   `json:"stock_initial"`
}

// AjusterStockRequest applies a signed delta to one size of a product.
type AjusterStockRequest struct {
	Taille string `json:"taille" validate:"required"`
	Delta  int    `json:"delta"  validate:"required"`
}

// SetStockRequest upserts the initial quantity of one size.
type SetStockRequest struct {
	Taille   string `json:"taille"   validate:"required"`
	Quantite int    `json:"quantite" validate:"min=0"`
}

type StockEntryResponse struct {
	Taille           string `json:"taille"`
	QuantiteActuelle int    `json:"quantite_actuelle"`
	QuantiteInitiale int    `json:"quantite_initiale"`
	SeuilAlerte      int    `json:"seuil_alerte"`
}

type ProductResponse struct {
	ID           string               `json:"id"`
	CodeModele   string               `json:"code_modele"`
	Nom          string               `json:"nom"`
	PrixUnitaire decimal.Decimal      `json:"prix_unitaire"`
	CategorieID  *string              `json:"categorie_id"`
	ImageURL     *string              `json:"image_url"`
	Actif        bool                 `json:"actif"`
	Stock        []StockEntryResponse `json:"stock"`
	StockTotal   int                  `json:"stock_total"`
	StockStatut  string               `json:"stock_statut"` // out | low | ok
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// AlerteStockResponse is one product at or below its reorder threshold.
type AlerteStockResponse struct {
	ProductID  string `json:"product_id"`
	CodeModele string `json:"code_modele"`
	Nom        string `json:"nom"`
	Taille     string `json:"taille"`
	Quantite   int    `json:"quantite"`
	Seuil      int    `json:"seuil"`
	Statut     string `json:"statut"` // out | low
}
