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

type CategoryService interface {
	Create(ctx context.Context, actor worker.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, actor worker.Actor, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor worker.Actor, id uuid.UUID) error
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	dispatcher *worker.Dispatcher
}

func NewCategoryService(categories repository.CategoryRepository, dispatcher *worker.Dispatcher) CategoryService {
	return &categoryService{categories: categories, dispatcher: dispatcher}
}

func (s *categoryService) Create(ctx context.Context, actor worker.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat := &model.Category{Nom: req.Nom}
	if err := s.categories.Create(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Une catégorie existe déjà avec ce nom")
		}
		return nil, apierror.Transient("Impossible de créer la catégorie", err)
	}
	s.dispatchCategoryEvent(ctx, actor, "category_created", cat)
	return &dto.CategoryResponse{ID: cat.ID.String(), Nom: cat.Nom}, nil
}

func (s *categoryService) Update(ctx context.Context, actor worker.Actor, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Catégorie introuvable")
	}
	cat.Nom = req.Nom
	if err := s.categories.Update(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Une catégorie existe déjà avec ce nom")
		}
		return nil, apierror.Transient("Impossible de modifier la catégorie", err)
	}
	s.dispatchCategoryEvent(ctx, actor, "category_updated", cat)
	return &dto.CategoryResponse{ID: cat.ID.String(), Nom: cat.Nom}, nil
}

func (s *categoryService) Delete(ctx context.Context, actor worker.Actor, id uuid.UUID) error {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Catégorie introuvable")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apierror.Transient("Impossible de supprimer la catégorie", err)
	}
	s.dispatchCategoryEvent(ctx, actor, "category_deleted", cat)
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger les catégories", err)
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryResponse{ID: c.ID.String(), Nom: c.Nom})
	}
	return out, nil
}

func (s *categoryService) dispatchCategoryEvent(ctx context.Context, actor worker.Actor, actionType string, cat *model.Category) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueActivity(ctx, worker.ActivityEvent{
		UserID:     actor.ID.String(),
		UserName:   actor.Nom,
		ActionType: actionType,
		EntityType: strPtr("category"),
		EntityID:   strPtr(cat.ID.String()),
		EntityName: strPtr(cat.Nom),
	})
}
