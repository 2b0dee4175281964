package service

import (
	"context"
	"testing"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (CatalogService, *stubProductRepo, *stubStockRepo) {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo(stockRepo)
	stockRepo.products = productRepo
	return NewCatalogService(productRepo, stockRepo, nil), productRepo, stockRepo
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testActor() worker.Actor {
	return worker.Actor{Nom: "Testeur"}
}

func TestCreateProductWithInitialStock(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	resp, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele:   "TSH-001",
		Nom:          "T-shirt col rond",
		PrixUnitaire: decPtr(50000),
		StockInitial: map[string]int{"M": 10, "L": 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "TSH-001", resp.CodeModele)
	assert.True(t, resp.Actif)
	assert.Equal(t, 15, resp.StockTotal)
	assert.Equal(t, model.StockOK, resp.StockStatut)
	assert.Len(t, resp.Stock, 2)
	for _, e := range resp.Stock {
		assert.Equal(t, e.QuantiteActuelle, e.QuantiteInitiale)
	}
}

func TestCreateProductZeroQuantitySizesSkipped(t *testing.T) {
	svc, _, stock := newCatalogFixture()

	resp, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele:   "TSH-002",
		Nom:          "T-shirt col V",
		PrixUnitaire: decPtr(50000),
		StockInitial: map[string]int{"M": 10, "L": 0},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Stock, 1)
	assert.Len(t, stock.entries, 1)
}

func TestCreateProductDuplicateCode(t *testing.T) {
	svc, _, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele: "TSH-001", Nom: "Premier", PrixUnitaire: decPtr(1000),
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele: "TSH-001", Nom: "Doublon", PrixUnitaire: decPtr(2000),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCreateProductInvalidSize(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele:   "TSH-003",
		Nom:          "Taille inconnue",
		PrixUnitaire: decPtr(1000),
		StockInitial: map[string]int{"XXXL": 3},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestUpdateProductOverwritesStock(t *testing.T) {
	svc, _, stock := newCatalogFixture()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele:   "PNT-001",
		Nom:          "Pantalon",
		PrixUnitaire: decPtr(120000),
		StockInitial: map[string]int{"M": 8},
	})
	require.NoError(t, err)

	// Sell a few, then restock: the submitted quantity becomes the new truth
	// for both initial and current.
	id := mustUUID(t, created.ID)
	_, err = stock.AdjustTx(nil, id, "M", -3)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, testActor(), id, dto.UpdateProductRequest{
		CodeModele:   "PNT-001",
		Nom:          "Pantalon droit",
		PrixUnitaire: decPtr(130000),
		StockInitial: map[string]int{"M": 20},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pantalon droit", updated.Nom)
	require.Len(t, updated.Stock, 1)
	assert.Equal(t, 20, updated.Stock[0].QuantiteActuelle)
	assert.Equal(t, 20, updated.Stock[0].QuantiteInitiale)
}

func TestDeactivateProductIsSoftAndIdempotent(t *testing.T) {
	svc, products, _ := newCatalogFixture()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele: "ROB-001", Nom: "Robe", PrixUnitaire: decPtr(90000),
	})
	require.NoError(t, err)
	id := mustUUID(t, created.ID)

	require.NoError(t, svc.DeactivateProduct(ctx, testActor(), id))
	require.NoError(t, svc.DeactivateProduct(ctx, testActor(), id))

	assert.False(t, products.products[id].Actif)

	// Still visible through direct read, just inactive.
	got, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Actif)
}

func TestListProductsFiltersInactive(t *testing.T) {
	svc, _, _ := newCatalogFixture()
	ctx := context.Background()

	a, err := svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele: "A-1", Nom: "Actif", PrixUnitaire: decPtr(1000),
	})
	require.NoError(t, err)
	b, err := svc.CreateProduct(ctx, testActor(), dto.CreateProductRequest{
		CodeModele: "B-1", Nom: "Inactif", PrixUnitaire: decPtr(1000),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateProduct(ctx, testActor(), mustUUID(t, b.ID)))

	actifs, err := svc.ListProducts(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, actifs.Data, 1)
	assert.Equal(t, a.ID, actifs.Data[0].ID)

	tous, err := svc.ListProducts(ctx, dto.ProductFilter{Actif: "all"})
	require.NoError(t, err)
	assert.Len(t, tous.Data, 2)
}

func TestCreateProductZeroPriceAllowed(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	// Giveaway and promotional items are sold at 0 GNF.
	resp, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele: "PRO-001", Nom: "Tote offert", PrixUnitaire: decPtr(0),
	})
	require.NoError(t, err)
	assert.True(t, resp.PrixUnitaire.IsZero())
}

func TestCreateProductMissingPriceRejected(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele: "PRO-002", Nom: "Sans prix",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Contains(t, err.Error(), "prix")
}

func TestCreateProductNegativePriceRejected(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele: "PRO-003", Nom: "Prix négatif", PrixUnitaire: decPtr(-1),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestUpdateProductMissingPriceRejected(t *testing.T) {
	svc, _, _ := newCatalogFixture()
	created, err := svc.CreateProduct(context.Background(), testActor(), dto.CreateProductRequest{
		CodeModele: "PRO-004", Nom: "Chemise", PrixUnitaire: decPtr(45000),
	})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), testActor(), mustUUID(t, created.ID), dto.UpdateProductRequest{
		CodeModele: "PRO-004", Nom: "Chemise",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}
