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

// WorkPlanService drives the daily reconciliation workflow: open a per-day
// snapshot of sellable stock, record sold quantities against it, and close
// the day by materializing the net result into an immutable sale.
type WorkPlanService interface {
	// GetOrCreate returns the plan for the date, creating and seeding it on
	// first access. Exactly one plan can exist per date; a caller losing the
	// creation race receives a Conflict error and should retry the read.
	GetOrCreate(ctx context.Context, actor worker.Actor, date string) (*dto.WorkPlanResponse, error)
	// SaveLignes applies absolute-replace edits of quantite_vendue. Each
	// line edit and its stock write share one transaction.
	SaveLignes(ctx context.Context, actor worker.Actor, planID uuid.UUID, req dto.SaveLignesRequest) (*dto.WorkPlanResponse, error)
	// Cloture closes the plan: applies pending edits, creates the day's sale
	// when anything was sold, and flips the terminal flag. Closing an
	// already-closed plan is rejected.
	Cloture(ctx context.Context, actor worker.Actor, planID uuid.UUID, req dto.ClotureRequest) (*dto.ClotureResponse, error)
	Get(ctx context.Context, planID uuid.UUID) (*dto.WorkPlanResponse, error)
}

type workPlanService struct {
	plans      repository.WorkPlanRepository
	stock      repository.StockRepository
	sales      repository.SaleRepository
	dispatcher *worker.Dispatcher
}

func NewWorkPlanService(
	plans repository.WorkPlanRepository,
	stock repository.StockRepository,
	sales repository.SaleRepository,
	dispatcher *worker.Dispatcher,
) WorkPlanService {
	return &workPlanService{plans: plans, stock: stock, sales: sales, dispatcher: dispatcher}
}

// ── GetOrCreate ──────────────────────────────────────────────────────────────

func (s *workPlanService) GetOrCreate(ctx context.Context, actor worker.Actor, date string) (*dto.WorkPlanResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apierror.Validation("Date invalide, format attendu YYYY-MM-DD")
	}

	plan, err := s.plans.FindByDate(ctx, date)
	if err == nil {
		return workPlanToResponse(plan), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Transient("Impossible de charger le plan de travail", err)
	}

	// First access for this date: create the plan and seed one line per
	// sellable stock entry, all in one transaction. The unique index on
	// date_travail makes concurrent creators lose cleanly.
	employeID := actor.ID
	newPlan := &model.WorkPlan{DateTravail: date, EmployeID: &employeID}

	txErr := runTx(ctx, s.plans.DB(), func(tx *gorm.DB) error {
		if err := s.plans.CreateTx(tx, newPlan); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Conflict("Un plan de travail existe déjà pour cette date")
			}
			return err
		}

		sellable, err := s.stock.ListSellable(ctx)
		if err != nil {
			return err
		}
		lignes := make([]model.WorkPlanLine, 0, len(sellable))
		for _, entry := range sellable {
			if entry.Product == nil {
				continue
			}
			lignes = append(lignes, model.WorkPlanLine{
				WorkPlanID:       newPlan.ID,
				ProductID:        entry.ProductID,
				Taille:           entry.Taille,
				QuantiteInitiale: entry.QuantiteActuelle,
				QuantiteVendue:   0,
				QuantiteRestante: entry.QuantiteActuelle,
				PrixUnitaire:     entry.Product.PrixUnitaire,
				PrixTotal:        decimal.Zero,
			})
		}
		return s.plans.CreateLignesTx(tx, lignes)
	})
	if txErr != nil {
		return nil, txErr
	}

	created, err := s.plans.FindByID(ctx, newPlan.ID)
	if err != nil {
		return nil, apierror.Transient("Impossible de recharger le plan de travail", err)
	}
	return workPlanToResponse(created), nil
}

// ── SaveLignes ───────────────────────────────────────────────────────────────

func (s *workPlanService) SaveLignes(ctx context.Context, actor worker.Actor, planID uuid.UUID, req dto.SaveLignesRequest) (*dto.WorkPlanResponse, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, apierror.NotFound("Plan de travail introuvable")
	}
	if plan.Cloture {
		return nil, apierror.Conflict("Le plan de travail est clôturé, les lignes ne sont plus modifiables")
	}

	txErr := runTx(ctx, s.plans.DB(), func(tx *gorm.DB) error {
		return s.applyEditsTx(tx, plan, req.Lignes)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchStockEvent(ctx, actor, plan)
	return s.Get(ctx, planID)
}

// applyEditsTx applies absolute quantite_vendue replacements to plan lines
// and syncs each line's stock entry to quantite_initiale − quantite_vendue,
// exactly as the reconciliation sheet defines the day's remaining stock.
func (s *workPlanService) applyEditsTx(tx *gorm.DB, plan *model.WorkPlan, edits []dto.LigneEdit) error {
	for _, edit := range edits {
		ligneID, err := uuid.Parse(edit.LigneID)
		if err != nil {
			return apierror.Validation("ligne_id invalide")
		}
		ligne := findLigne(plan, ligneID)
		if ligne == nil {
			return apierror.NotFound("Ligne introuvable dans ce plan de travail")
		}
		if edit.QuantiteVendue < 0 || edit.QuantiteVendue > ligne.QuantiteInitiale {
			return apierror.Validation("La quantité vendue doit être comprise entre 0 et la quantité initiale")
		}

		ligne.QuantiteVendue = edit.QuantiteVendue
		ligne.QuantiteRestante = ligne.QuantiteInitiale - edit.QuantiteVendue
		ligne.PrixTotal = ligne.PrixUnitaire.Mul(decimal.NewFromInt(int64(edit.QuantiteVendue)))
		ligne.Product = nil // avoid writing back the preloaded association
		if err := s.plans.UpdateLigneTx(tx, ligne); err != nil {
			return err
		}

		if _, err := s.stock.SetQuantiteTx(tx, ligne.ProductID, ligne.Taille, ligne.QuantiteRestante); err != nil {
			return err
		}
	}
	return nil
}

// ── Cloture ──────────────────────────────────────────────────────────────────

func (s *workPlanService) Cloture(ctx context.Context, actor worker.Actor, planID uuid.UUID, req dto.ClotureRequest) (*dto.ClotureResponse, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, apierror.NotFound("Plan de travail introuvable")
	}
	if plan.Cloture {
		return nil, apierror.Conflict("Le plan de travail est déjà clôturé")
	}
	// Reconciliation happens against physical stock at the end of the day;
	// only the plan for the current date may be closed.
	if plan.DateTravail != today() {
		return nil, apierror.Validation("Seul le plan de travail du jour peut être clôturé")
	}

	employeID := actor.ID
	var sale *model.Sale

	txErr := runTx(ctx, s.plans.DB(), func(tx *gorm.DB) error {
		if len(req.Lignes) > 0 {
			if err := s.applyEditsTx(tx, plan, req.Lignes); err != nil {
				return err
			}
		}

		total := decimal.Zero
		var items []model.SaleItem
		for i := range plan.Lignes {
			ligne := &plan.Lignes[i]
			if ligne.QuantiteVendue <= 0 {
				continue
			}
			lineTotal := ligne.PrixUnitaire.Mul(decimal.NewFromInt(int64(ligne.QuantiteVendue)))
			total = total.Add(lineTotal)
			items = append(items, model.SaleItem{
				ProductID:    ligne.ProductID,
				Taille:       ligne.Taille,
				Quantite:     ligne.QuantiteVendue,
				PrixUnitaire: ligne.PrixUnitaire,
				PrixTotal:    lineTotal,
			})
		}

		// A day with nothing sold closes without creating a sale row.
		if total.IsPositive() {
			planID := plan.ID
			sale = &model.Sale{
				DateVente:    time.Now(),
				MontantTotal: total,
				ModePaiement: "especes",
				WorkPlanID:   &planID,
				EmployeID:    &employeID,
				Items:        items,
			}
			if err := s.sales.CreateTx(tx, sale); err != nil {
				return err
			}
		}

		return s.plans.SetClotureTx(tx, plan.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.ClotureResponse{
		WorkPlanID:   plan.ID.String(),
		Cloture:      true,
		MontantTotal: decimal.Zero,
	}
	if sale != nil {
		saleID := sale.ID.String()
		resp.SaleID = &saleID
		resp.MontantTotal = sale.MontantTotal

		if s.dispatcher != nil {
			_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
				UserID:     actor.ID.String(),
				UserName:   actor.Nom,
				ActionType: "sale_created",
				EntityType: strPtr("sale"),
				EntityID:   strPtr(saleID),
				Details:    map[string]interface{}{"source": "cloture_plan", "montant_total": sale.MontantTotal.String()},
			})
		}
	}
	return resp, nil
}

func (s *workPlanService) Get(ctx context.Context, planID uuid.UUID) (*dto.WorkPlanResponse, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, apierror.NotFound("Plan de travail introuvable")
	}
	return workPlanToResponse(plan), nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *workPlanService) dispatchStockEvent(ctx context.Context, actor worker.Actor, plan *model.WorkPlan) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
		UserID:     actor.ID.String(),
		UserName:   actor.Nom,
		ActionType: "stock_updated",
		EntityType: strPtr("work_plan"),
		EntityID:   strPtr(plan.ID.String()),
		Details:    map[string]interface{}{"date_travail": plan.DateTravail},
	})
}

func findLigne(plan *model.WorkPlan, id uuid.UUID) *model.WorkPlanLine {
	for i := range plan.Lignes {
		if plan.Lignes[i].ID == id {
			return &plan.Lignes[i]
		}
	}
	return nil
}

func workPlanToResponse(plan *model.WorkPlan) *dto.WorkPlanResponse {
	lignes := make([]dto.WorkPlanLineResponse, 0, len(plan.Lignes))
	totalVendu := 0
	montant := decimal.Zero
	for _, l := range plan.Lignes {
		code, nom := "", ""
		if l.Product != nil {
			code, nom = l.Product.CodeModele, l.Product.Nom
		}
		lignes = append(lignes, dto.WorkPlanLineResponse{
			ID:               l.ID.String(),
			ProductID:        l.ProductID.String(),
			CodeModele:       code,
			Nom:              nom,
			Taille:           l.Taille,
			QuantiteInitiale: l.QuantiteInitiale,
			QuantiteVendue:   l.QuantiteVendue,
			QuantiteRestante: l.QuantiteRestante,
			PrixUnitaire:     l.PrixUnitaire,
			PrixTotal:        l.PrixTotal,
		})
		totalVendu += l.QuantiteVendue
		montant = montant.Add(l.PrixUnitaire.Mul(decimal.NewFromInt(int64(l.QuantiteVendue))))
	}
	return &dto.WorkPlanResponse{
		ID:           plan.ID.String(),
		DateTravail:  plan.DateTravail,
		Cloture:      plan.Cloture,
		Lignes:       lignes,
		TotalVendu:   totalVendu,
		MontantTotal: montant,
	}
}
