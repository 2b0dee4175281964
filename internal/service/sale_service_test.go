package service

import (
	"context"
	"testing"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	svc      SaleService
	sales    *stubSaleRepo
	stock    *stubStockRepo
	plans    *stubWorkPlanRepo
	products *stubProductRepo
}

func newSaleFixture() *saleFixture {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo(stockRepo)
	stockRepo.products = productRepo
	planRepo := newStubWorkPlanRepo()
	saleRepo := newStubSaleRepo()
	return &saleFixture{
		svc:      NewSaleService(saleRepo, productRepo, stockRepo, planRepo, nil),
		sales:    saleRepo,
		stock:    stockRepo,
		plans:    planRepo,
		products: productRepo,
	}
}

func (f *saleFixture) seedProduct(t *testing.T, code string, prix int64, tailles map[string]int) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:           uuid.New(),
		CodeModele:   code,
		Nom:          "Produit " + code,
		PrixUnitaire: decimal.NewFromInt(prix),
		Actif:        true,
	}
	f.products.products[p.ID] = p
	for taille, qty := range tailles {
		require.NoError(t, f.stock.UpsertTx(nil, p.ID, taille, qty))
	}
	return p
}

func TestCheckoutMultiLineCart(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	tshirt := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 10})
	pantalon := f.seedProduct(t, "PNT-001", 150000, map[string]int{"L": 3})

	resp, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "mobile_money",
		Items: []dto.CartLineRequest{
			{ProductID: tshirt.ID.String(), Taille: "M", Quantite: 2},
			{ProductID: pantalon.ID.String(), Taille: "L", Quantite: 1},
		},
	})
	require.NoError(t, err)

	// 2×50000 + 1×150000, prices re-read server-side.
	assert.True(t, resp.MontantTotal.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, "mobile_money", resp.ModePaiement)
	assert.Len(t, resp.Items, 2)

	entryM, err := f.stock.FindEntry(ctx, tshirt.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, 8, entryM.QuantiteActuelle)
	entryL, err := f.stock.FindEntry(ctx, pantalon.ID, "L")
	require.NoError(t, err)
	assert.Equal(t, 2, entryL.QuantiteActuelle)
}

func TestCheckoutCreatesTodayPlanRowWithoutSeeding(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	p := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 10})

	resp, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkPlanID)

	plan, err := f.plans.FindByID(ctx, mustUUID(t, *resp.WorkPlanID))
	require.NoError(t, err)
	assert.Equal(t, today(), plan.DateTravail)
	assert.Empty(t, plan.Lignes)
}

func TestCheckoutReusesExistingPlan(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	p := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 10})

	first, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.NoError(t, err)
	second, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "carte",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, *first.WorkPlanID, *second.WorkPlanID)
	assert.Len(t, f.plans.plans, 1)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	p := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 2})

	_, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 3}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Empty(t, f.sales.sales)
}

func TestCheckoutInactiveProductRejected(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	p := f.seedProduct(t, "OLD-001", 50000, map[string]int{"M": 5})
	f.products.products[p.ID].Actif = false

	_, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCheckoutClosedPlanRejected(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	p := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 10})

	plan := &model.WorkPlan{DateTravail: today()}
	require.NoError(t, f.plans.CreateTx(nil, plan))
	require.NoError(t, f.plans.SetClotureTx(nil, plan.ID))

	_, err := f.svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCheckoutInvalidPaymentMode(t *testing.T) {
	f := newSaleFixture()
	p := f.seedProduct(t, "TSH-001", 50000, map[string]int{"M": 10})

	_, err := f.svc.Checkout(context.Background(), testActor(), dto.CheckoutRequest{
		ModePaiement: "cheque",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

// racingPlanRepo misses the first date lookup, so the service attempts to
// create a plan row that another checkout already inserted.
type racingPlanRepo struct {
	*stubWorkPlanRepo
	missed bool
}

func (r *racingPlanRepo) FindByDateTx(tx *gorm.DB, date string) (*model.WorkPlan, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.stubWorkPlanRepo.FindByDateTx(tx, date)
}

func TestCheckoutPlanCreationRaceAttachesToWinner(t *testing.T) {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo(stockRepo)
	stockRepo.products = productRepo
	planRepo := &racingPlanRepo{stubWorkPlanRepo: newStubWorkPlanRepo()}
	saleRepo := newStubSaleRepo()
	svc := NewSaleService(saleRepo, productRepo, stockRepo, planRepo, nil)
	ctx := context.Background()

	existing := &model.WorkPlan{DateTravail: today()}
	require.NoError(t, planRepo.stubWorkPlanRepo.CreateTx(nil, existing))

	p := &model.Product{
		ID:           uuid.New(),
		CodeModele:   "TSH-001",
		Nom:          "Produit TSH-001",
		PrixUnitaire: decimal.NewFromInt(50000),
		Actif:        true,
	}
	productRepo.products[p.ID] = p
	require.NoError(t, stockRepo.UpsertTx(nil, p.ID, "M", 5))

	resp, err := svc.Checkout(ctx, testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkPlanID)
	assert.Equal(t, existing.ID.String(), *resp.WorkPlanID)
	assert.Len(t, planRepo.stubWorkPlanRepo.plans, 1)
}

func TestCheckoutPlanCreationRaceClosedPlanRejected(t *testing.T) {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo(stockRepo)
	stockRepo.products = productRepo
	planRepo := &racingPlanRepo{stubWorkPlanRepo: newStubWorkPlanRepo()}
	saleRepo := newStubSaleRepo()
	svc := NewSaleService(saleRepo, productRepo, stockRepo, planRepo, nil)

	closed := &model.WorkPlan{DateTravail: today(), Cloture: true}
	require.NoError(t, planRepo.stubWorkPlanRepo.CreateTx(nil, closed))

	p := &model.Product{
		ID:           uuid.New(),
		CodeModele:   "TSH-001",
		Nom:          "Produit TSH-001",
		PrixUnitaire: decimal.NewFromInt(50000),
		Actif:        true,
	}
	productRepo.products[p.ID] = p
	require.NoError(t, stockRepo.UpsertTx(nil, p.ID, "M", 5))

	_, err := svc.Checkout(context.Background(), testActor(), dto.CheckoutRequest{
		ModePaiement: "especes",
		Items:        []dto.CartLineRequest{{ProductID: p.ID.String(), Taille: "M", Quantite: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}
