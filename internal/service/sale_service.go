package service

import (
	"context"
	"errors"
	"time"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService handles direct checkout: a multi-line cart recorded as one
// sale, with conditional stock decrements so a cart can never oversell.
type SaleService interface {
	Checkout(ctx context.Context, actor worker.Actor, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	stock      repository.StockRepository
	plans      repository.WorkPlanRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	stock repository.StockRepository,
	plans repository.WorkPlanRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{sales: sales, products: products, stock: stock, plans: plans, dispatcher: dispatcher}
}

func (s *saleService) Checkout(ctx context.Context, actor worker.Actor, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	if !model.ModePaiementValide(req.ModePaiement) {
		return nil, apierror.Validation("Mode de paiement invalide")
	}

	// Resolve products and re-read unit prices up front. Prices submitted by
	// the client are never trusted.
	type resolvedLine struct {
		product  *model.Product
		taille   string
		quantite int
	}
	lines := make([]resolvedLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("product_id invalide")
		}
		if !model.TailleValide(item.Taille) {
			return nil, apierror.Validation("Taille inconnue")
		}
		if item.Quantite <= 0 {
			return nil, apierror.Validation("La quantité doit être au moins 1")
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, apierror.NotFound("Produit introuvable")
		}
		if !product.Actif {
			return nil, apierror.Validation("Le produit " + product.CodeModele + " n'est plus en vente")
		}
		lines = append(lines, resolvedLine{product: product, taille: item.Taille, quantite: item.Quantite})
	}

	employeID := actor.ID
	sale := &model.Sale{
		DateVente:    time.Now(),
		ModePaiement: req.ModePaiement,
		EmployeID:    &employeID,
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		// A sale always hangs off the day's plan so closing reconciles
		// against it. The plan row is created on demand, without seeding.
		planID, err := s.resolvePlanTx(tx, employeID)
		if err != nil {
			return err
		}
		sale.WorkPlanID = planID

		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(lines))
		for _, line := range lines {
			affected, err := s.stock.AdjustTx(tx, line.product.ID, line.taille, -line.quantite)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierror.Validation("Stock insuffisant pour " + line.product.CodeModele + " taille " + line.taille)
			}
			lineTotal := line.product.PrixUnitaire.Mul(decimal.NewFromInt(int64(line.quantite)))
			total = total.Add(lineTotal)
			items = append(items, model.SaleItem{
				ProductID:    line.product.ID,
				Taille:       line.taille,
				Quantite:     line.quantite,
				PrixUnitaire: line.product.PrixUnitaire,
				PrixTotal:    lineTotal,
			})
		}

		sale.MontantTotal = total
		sale.Items = items
		return s.sales.CreateTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
			UserID:     actor.ID.String(),
			UserName:   actor.Nom,
			ActionType: "sale_created",
			EntityType: strPtr("sale"),
			EntityID:   strPtr(sale.ID.String()),
			Details: map[string]interface{}{
				"mode_paiement": sale.ModePaiement,
				"montant_total": sale.MontantTotal.String(),
				"nb_items":      len(sale.Items),
			},
		})
	}

	return s.GetSale(ctx, sale.ID)
}

// resolvePlanTx finds today's work plan inside the checkout transaction,
// creating the bare plan row when none exists yet. Unlike the morning
// get-or-create, no lines are seeded here.
func (s *saleService) resolvePlanTx(tx *gorm.DB, employeID uuid.UUID) (*uuid.UUID, error) {
	date := today()
	plan, err := s.plans.FindByDateTx(tx, date)
	if err == nil {
		if plan.Cloture {
			return nil, apierror.Conflict("Le plan de travail du jour est clôturé, impossible d'enregistrer une vente")
		}
		return &plan.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newPlan := &model.WorkPlan{DateTravail: date, EmployeID: &employeID}
	if err := s.plans.CreateTx(tx, newPlan); err != nil {
		// Lost the creation race against a concurrent checkout or plan
		// opening: attach to the row that won.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.plans.FindByDateTx(tx, date)
			if ferr != nil {
				return nil, apierror.Conflict("Un plan de travail existe déjà pour cette date")
			}
			if existing.Cloture {
				return nil, apierror.Conflict("Le plan de travail du jour est clôturé, impossible d'enregistrer une vente")
			}
			return &existing.ID, nil
		}
		return nil, err
	}
	return &newPlan.ID, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Vente introuvable")
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger les ventes", err)
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(sale *model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		code, nom := "", ""
		if item.Product != nil {
			code, nom = item.Product.CodeModele, item.Product.Nom
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:    item.ProductID.String(),
			CodeModele:   code,
			Nom:          nom,
			Taille:       item.Taille,
			Quantite:     item.Quantite,
			PrixUnitaire: item.PrixUnitaire,
			PrixTotal:    item.PrixTotal,
		})
	}
	resp := dto.SaleResponse{
		ID:           sale.ID.String(),
		DateVente:    sale.DateVente.Format(time.RFC3339),
		MontantTotal: sale.MontantTotal,
		ModePaiement: sale.ModePaiement,
		Items:        items,
	}
	if sale.WorkPlanID != nil {
		planID := sale.WorkPlanID.String()
		resp.WorkPlanID = &planID
	}
	return resp
}
