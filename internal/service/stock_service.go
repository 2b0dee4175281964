package service

import (
	"context"
	"errors"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService exposes direct operations on the per-size stock ledger,
// outside the daily work-plan flow (restocks, corrections, alert lookups).
type StockService interface {
	AdjustQuantity(ctx context.Context, actor worker.Actor, productID uuid.UUID, req dto.AjusterStockRequest) (*dto.StockEntryResponse, error)
	SetInitialQuantity(ctx context.Context, actor worker.Actor, productID uuid.UUID, req dto.SetStockRequest) (*dto.StockEntryResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.StockEntryResponse, error)
	ListAlertes(ctx context.Context) ([]dto.AlerteStockResponse, error)
}

type stockService struct {
	stock      repository.StockRepository
	products   repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewStockService(stock repository.StockRepository, products repository.ProductRepository, dispatcher *worker.Dispatcher) StockService {
	return &stockService{stock: stock, products: products, dispatcher: dispatcher}
}

func (s *stockService) AdjustQuantity(ctx context.Context, actor worker.Actor, productID uuid.UUID, req dto.AjusterStockRequest) (*dto.StockEntryResponse, error) {
	if !model.TailleValide(req.Taille) {
		return nil, apierror.Validation("Taille inconnue")
	}
	if req.Delta == 0 {
		return nil, apierror.Validation("Le delta ne peut pas être nul")
	}

	if _, err := s.stock.FindEntry(ctx, productID, req.Taille); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("Aucune entrée de stock pour ce produit et cette taille")
		}
		return nil, apierror.Transient("Impossible de charger le stock", err)
	}

	txErr := runTx(ctx, s.stock.DB(), func(tx *gorm.DB) error {
		affected, err := s.stock.AdjustTx(tx, productID, req.Taille, req.Delta)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apierror.Validation("Stock insuffisant pour appliquer cet ajustement")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchStockUpdated(ctx, actor, productID, req.Taille, map[string]interface{}{"delta": req.Delta})
	return s.entryResponse(ctx, productID, req.Taille)
}

func (s *stockService) SetInitialQuantity(ctx context.Context, actor worker.Actor, productID uuid.UUID, req dto.SetStockRequest) (*dto.StockEntryResponse, error) {
	if !model.TailleValide(req.Taille) {
		return nil, apierror.Validation("Taille inconnue")
	}
	if req.Quantite < 0 {
		return nil, apierror.Validation("La quantité doit être positive ou nulle")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, apierror.NotFound("Produit introuvable")
	}

	txErr := runTx(ctx, s.stock.DB(), func(tx *gorm.DB) error {
		return s.stock.UpsertTx(tx, productID, req.Taille, req.Quantite)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchStockUpdated(ctx, actor, productID, req.Taille, map[string]interface{}{"quantite": req.Quantite})
	return s.entryResponse(ctx, productID, req.Taille)
}

func (s *stockService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.StockEntryResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, apierror.NotFound("Produit introuvable")
	}
	entries, err := s.stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger le stock", err)
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, stockEntryToResponse(&e))
	}
	return out, nil
}

func (s *stockService) ListAlertes(ctx context.Context) ([]dto.AlerteStockResponse, error) {
	entries, err := s.stock.ListAlertes(ctx)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger les alertes de stock", err)
	}
	out := make([]dto.AlerteStockResponse, 0, len(entries))
	for _, e := range entries {
		alerte := dto.AlerteStockResponse{
			ProductID: e.ProductID.String(),
			Taille:    e.Taille,
			Quantite:  e.QuantiteActuelle,
			Seuil:     e.SeuilAlerte,
			Statut:    model.StockStatus(e.QuantiteActuelle, e.SeuilAlerte),
		}
		if e.Product != nil {
			alerte.CodeModele = e.Product.CodeModele
			alerte.Nom = e.Product.Nom
		}
		out = append(out, alerte)
	}
	return out, nil
}

func (s *stockService) entryResponse(ctx context.Context, productID uuid.UUID, taille string) (*dto.StockEntryResponse, error) {
	entry, err := s.stock.FindEntry(ctx, productID, taille)
	if err != nil {
		return nil, apierror.Transient("Impossible de recharger le stock", err)
	}
	resp := stockEntryToResponse(entry)
	return &resp, nil
}

func (s *stockService) dispatchStockUpdated(ctx context.Context, actor worker.Actor, productID uuid.UUID, taille string, details map[string]interface{}) {
	if s.dispatcher == nil {
		return
	}
	details["taille"] = taille
	_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
		UserID:     actor.ID.String(),
		UserName:   actor.Nom,
		ActionType: "stock_updated",
		EntityType: strPtr("product"),
		EntityID:   strPtr(productID.String()),
		Details:    details,
	})
}

func stockEntryToResponse(e *model.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		Taille:           e.Taille,
		QuantiteActuelle: e.QuantiteActuelle,
		QuantiteInitiale: e.QuantiteInitiale,
		SeuilAlerte:      e.SeuilAlerte,
	}
}
