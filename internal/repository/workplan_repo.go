package repository

import (
	"context"

	"makiti/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkPlanRepository defines the data access contract for daily work plans
// and their lines.
type WorkPlanRepository interface {
	FindByDate(ctx context.Context, date string) (*model.WorkPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkPlan, error)
	CreateTx(tx *gorm.DB, plan *model.WorkPlan) error
	CreateLignesTx(tx *gorm.DB, lignes []model.WorkPlanLine) error
	UpdateLigneTx(tx *gorm.DB, ligne *model.WorkPlanLine) error
	SetClotureTx(tx *gorm.DB, id uuid.UUID) error
	// FindByDateTx re-reads the plan inside a transaction, used by checkout
	// to resolve today's plan race-safely.
	FindByDateTx(tx *gorm.DB, date string) (*model.WorkPlan, error)

	DB() *gorm.DB
}

type workPlanRepo struct{ db *gorm.DB }

func NewWorkPlanRepository(db *gorm.DB) WorkPlanRepository { return &workPlanRepo{db: db} }

func (r *workPlanRepo) DB() *gorm.DB { return r.db }

func (r *workPlanRepo) FindByDate(ctx context.Context, date string) (*model.WorkPlan, error) {
	var plan model.WorkPlan
	err := r.db.WithContext(ctx).
		Preload("Lignes.Product").
		Where("date_travail = ?", date).
		First(&plan).Error
	return &plan, err
}

func (r *workPlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkPlan, error) {
	var plan model.WorkPlan
	err := r.db.WithContext(ctx).
		Preload("Lignes.Product").
		First(&plan, "id = ?", id).Error
	return &plan, err
}

func (r *workPlanRepo) CreateTx(tx *gorm.DB, plan *model.WorkPlan) error {
	return tx.Create(plan).Error
}

func (r *workPlanRepo) CreateLignesTx(tx *gorm.DB, lignes []model.WorkPlanLine) error {
	if len(lignes) == 0 {
		return nil
	}
	return tx.Create(&lignes).Error
}

func (r *workPlanRepo) UpdateLigneTx(tx *gorm.DB, ligne *model.WorkPlanLine) error {
	return tx.Save(ligne).Error
}

func (r *workPlanRepo) SetClotureTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.WorkPlan{}).Where("id = ?", id).Update("cloture", true).Error
}

func (r *workPlanRepo) FindByDateTx(tx *gorm.DB, date string) (*model.WorkPlan, error) {
	var plan model.WorkPlan
	err := tx.Where("date_travail = ?", date).First(&plan).Error
	return &plan, err
}
