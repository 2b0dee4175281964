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

// CatalogService manages products and their per-size stock rows.
type CatalogService interface {
	CreateProduct(ctx context.Context, actor worker.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, actor worker.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, actor worker.Actor, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
}

type catalogService struct {
	products   repository.ProductRepository
	stock      repository.StockRepository
	dispatcher *worker.Dispatcher
}

func NewCatalogService(products repository.ProductRepository, stock repository.StockRepository, dispatcher *worker.Dispatcher) CatalogService {
	return &catalogService{products: products, stock: stock, dispatcher: dispatcher}
}

// CreateProduct creates the product row plus one stock entry per size with a
// non-zero initial quantity, in a single transaction.
func (s *catalogService) CreateProduct(ctx context.Context, actor worker.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	// A pointer distinguishes an omitted price from a legitimate zero.
	if req.PrixUnitaire == nil {
		return nil, apierror.Validation("Le prix unitaire est requis")
	}
	if req.PrixUnitaire.IsNegative() {
		return nil, apierror.Validation("Le prix unitaire ne peut pas être négatif")
	}
	for taille := range req.StockInitial {
		if !model.TailleValide(taille) {
			return nil, apierror.Validation("Taille inconnue: " + taille)
		}
		if req.StockInitial[taille] < 0 {
			return nil, apierror.Validation("La quantité initiale ne peut pas être négative")
		}
	}

	var categorieID *uuid.UUID
	if req.CategorieID != nil {
		id, err := uuid.Parse(*req.CategorieID)
		if err != nil {
			return nil, apierror.Validation("categorie_id invalide")
		}
		categorieID = &id
	}

	product := &model.Product{
		CodeModele:   req.CodeModele,
		Nom:          req.Nom,
		PrixUnitaire: *req.PrixUnitaire,
		CategorieID:  categorieID,
		ImageURL:     req.ImageURL,
		Actif:        true,
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Conflict("Un produit avec ce code modèle existe déjà")
			}
			return err
		}
		for _, taille := range model.Tailles {
			qty, ok := req.StockInitial[taille]
			if !ok || qty <= 0 {
				continue
			}
			if err := s.stock.UpsertTx(tx, product.ID, taille, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchProductEvent(ctx, actor, "product_created", product)
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct fully replaces the mutable fields and overwrites stock for
// every size present in the request: both quantite_initiale and
// quantite_actuelle are reset to the submitted value, discarding whatever was
// sold against the old figures that day. This mirrors how the shop restocks:
// the owner counts the shelf and types the new truth.
func (s *catalogService) UpdateProduct(ctx context.Context, actor worker.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produit introuvable")
	}
	if req.PrixUnitaire == nil {
		return nil, apierror.Validation("Le prix unitaire est requis")
	}
	if req.PrixUnitaire.IsNegative() {
		return nil, apierror.Validation("Le prix unitaire ne peut pas être négatif")
	}
	for taille, qty := range req.StockInitial {
		if !model.TailleValide(taille) {
			return nil, apierror.Validation("Taille inconnue: " + taille)
		}
		if qty < 0 {
			return nil, apierror.Validation("La quantité ne peut pas être négative")
		}
	}

	var categorieID *uuid.UUID
	if req.CategorieID != nil {
		cid, err := uuid.Parse(*req.CategorieID)
		if err != nil {
			return nil, apierror.Validation("categorie_id invalide")
		}
		categorieID = &cid
	}

	product.CodeModele = req.CodeModele
	product.Nom = req.Nom
	product.PrixUnitaire = *req.PrixUnitaire
	product.CategorieID = categorieID
	product.ImageURL = req.ImageURL
	product.Stock = nil // stock rows are written explicitly below

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.UpdateTx(tx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Conflict("Un produit avec ce code modèle existe déjà")
			}
			return err
		}
		for taille, qty := range req.StockInitial {
			if err := s.stock.UpsertTx(tx, product.ID, taille, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchProductEvent(ctx, actor, "product_updated", product)
	return s.GetProduct(ctx, product.ID)
}

// DeactivateProduct soft-deletes: sales history referencing the product is
// never removed. Idempotent.
func (s *catalogService) DeactivateProduct(ctx context.Context, actor worker.Actor, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Produit introuvable")
	}
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return apierror.Transient("Impossible de désactiver le produit", err)
	}
	s.dispatchProductEvent(ctx, actor, "product_deleted", product)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produit introuvable")
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transient("Impossible de lister les produits", err)
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogService) dispatchProductEvent(ctx context.Context, actor worker.Actor, actionType string, p *model.Product) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
		UserID:     actor.ID.String(),
		UserName:   actor.Nom,
		ActionType: actionType,
		EntityType: strPtr("product"),
		EntityID:   strPtr(p.ID.String()),
		EntityName: strPtr(p.Nom),
	})
}

func productToResponse(p *model.Product) dto.ProductResponse {
	stock := make([]dto.StockEntryResponse, 0, len(p.Stock))
	totalStock := 0
	seuil := model.DefaultSeuilAlerte
	for _, e := range p.Stock {
		stock = append(stock, dto.StockEntryResponse{
			Taille:           e.Taille,
			QuantiteActuelle: e.QuantiteActuelle,
			QuantiteInitiale: e.QuantiteInitiale,
			SeuilAlerte:      e.SeuilAlerte,
		})
		totalStock += e.QuantiteActuelle
	}
	var categorieID *string
	if p.CategorieID != nil {
		id := p.CategorieID.String()
		categorieID = &id
	}
	return dto.ProductResponse{
		ID:           p.ID.String(),
		CodeModele:   p.CodeModele,
		Nom:          p.Nom,
		PrixUnitaire: p.PrixUnitaire,
		CategorieID:  categorieID,
		ImageURL:     p.ImageURL,
		Actif:        p.Actif,
		Stock:        stock,
		StockTotal:   totalStock,
		StockStatut:  model.StockStatus(totalStock, seuil),
	}
}

func strPtr(s string) *string { return &s }
