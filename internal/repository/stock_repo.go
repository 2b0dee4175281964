package repository

import (
	"context"

	"makiti/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository defines the data access contract for the per-size ledger.
type StockRepository interface {
	FindEntry(ctx context.Context, productID uuid.UUID, taille string) (*model.StockEntry, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockEntry, error)
	// ListSellable returns all entries with quantity > 0 belonging to an
	// active product, with the product preloaded. Used to seed work plans.
	ListSellable(ctx context.Context) ([]model.StockEntry, error)
	ListAlertes(ctx context.Context) ([]model.StockEntry, error)

	// UpsertTx resets both quantite_initiale and quantite_actuelle of
	// (product, taille) to the given quantity, creating the row if missing.
	UpsertTx(tx *gorm.DB, productID uuid.UUID, taille string, quantite int) error
	// AdjustTx applies a signed delta to quantite_actuelle. The update is
	// conditional: it affects zero rows when the entry is missing or the
	// delta would drive the quantity negative.
	AdjustTx(tx *gorm.DB, productID uuid.UUID, taille string, delta int) (int64, error)
	// SetQuantiteTx overwrites quantite_actuelle with an absolute value.
	SetQuantiteTx(tx *gorm.DB, productID uuid.UUID, taille string, quantite int) (int64, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) FindEntry(ctx context.Context, productID uuid.UUID, taille string) (*model.StockEntry, error) {
	var e model.StockEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND taille = ?", productID, taille).
		First(&e).Error
	return &e, err
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("taille ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) ListSellable(ctx context.Context) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = stock.product_id AND products.actif = true").
		Where("stock.quantite_actuelle > 0").
		Preload("Product").
		Order("stock.product_id, stock.taille").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) ListAlertes(ctx context.Context) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = stock.product_id AND products.actif = true").
		Where("stock.quantite_actuelle <= stock.seuil_alerte").
		Preload("Product").
		Order("stock.quantite_actuelle ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) UpsertTx(tx *gorm.DB, productID uuid.UUID, taille string, quantite int) error {
	entry := model.StockEntry{
		ProductID:        productID,
		Taille:           taille,
		QuantiteActuelle: quantite,
		QuantiteInitiale: quantite,
		SeuilAlerte:      model.DefaultSeuilAlerte,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "taille"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantite_actuelle": quantite,
			"quantite_initiale": quantite,
		}),
	}).Create(&entry).Error
}

func (r *stockRepo) AdjustTx(tx *gorm.DB, productID uuid.UUID, taille string, delta int) (int64, error) {
	res := tx.Model(&model.StockEntry{}).
		Where("product_id = ? AND taille = ? AND quantite_actuelle + ? >= 0", productID, taille, delta).
		Update("quantite_actuelle", gorm.Expr("quantite_actuelle + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *stockRepo) SetQuantiteTx(tx *gorm.DB, productID uuid.UUID, taille string, quantite int) (int64, error) {
	res := tx.Model(&model.StockEntry{}).
		Where("product_id = ? AND taille = ?", productID, taille).
		Update("quantite_actuelle", quantite)
	return res.RowsAffected, res.Error
}
