package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkPlan is the per-day reconciliation sheet: a snapshot of sellable stock
// taken when the plan is first opened for a date. At most one plan exists per
// date_travail (unique index). Once Cloture is set the plan and its lines are
// read-only; there is no reopening path.
type WorkPlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DateTravail string     `gorm:"column:date_travail;type:date;uniqueIndex;not null"` // YYYY-MM-DD
	EmployeID   *uuid.UUID `gorm:"column:employe_id;type:uuid"`
	Cloture     bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lignes []WorkPlanLine `gorm:"foreignKey:WorkPlanID"`
}

func (WorkPlan) TableName() string { return "daily_work_plans" }

// WorkPlanLine is one product+size within a WorkPlan.
// QuantiteInitiale is copied from stock at seeding; QuantiteVendue is edited
// by absolute replacement until the plan closes. QuantiteRestante and
// PrixTotal are derived and recomputed on every write.
type WorkPlanLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkPlanID       uuid.UUID       `gorm:"column:work_plan_id;type:uuid;not null;uniqueIndex:idx_plan_product_taille"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_plan_product_taille"`
	Taille           string          `gorm:"type:varchar(4);not null;uniqueIndex:idx_plan_product_taille"`
	QuantiteInitiale int             `gorm:"column:quantite_initiale;not null"`
	QuantiteVendue   int             `gorm:"column:quantite_vendue;not null;default:0"`
	QuantiteRestante int             `gorm:"column:quantite_restante;not null"`
	PrixUnitaire     decimal.Decimal `gorm:"column:prix_unitaire;type:decimal(12,0);not null"`
	PrixTotal        decimal.Decimal `gorm:"column:prix_total;type:decimal(12,0);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (WorkPlanLine) TableName() string { return "work_plan_lines" }
