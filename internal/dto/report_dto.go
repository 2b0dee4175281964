package dto

import "github.com/shopspring/decimal"

// ReportFilter is bound from the query string of GET /v1/rapports.
type ReportFilter struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to"   validate:"required,datetime=2006-01-02"`
}

// DailyBucket is one calendar day of the range with its revenue and count.
type DailyBucket struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// TopProductEntry ranks one product by revenue over the range.
type TopProductEntry struct {
	CodeModele string          `json:"code_modele"`
	Nom        string          `json:"nom"`
	Quantite   int             `json:"quantite"`
	Montant    decimal.Decimal `json:"montant"`
}

type ReportResponse struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	TotalVentes  decimal.Decimal   `json:"total_ventes"`
	NombreVentes int               `json:"nombre_ventes"`
	MoyenneVente decimal.Decimal   `json:"moyenne_vente"`
	ParJour      []DailyBucket     `json:"par_jour"`
	TopProduits  []TopProductEntry `json:"top_produits"`
}
