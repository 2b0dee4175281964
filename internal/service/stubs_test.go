package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustUUID(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	require.NoError(t, err)
	return id
}

// In-memory repository stubs. Services run their transactions against a nil
// *gorm.DB, which makes runTx call the closure directly, so the Tx method
// variants here simply ignore the tx argument.

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	stock    *stubStockRepo
}

func newStubProductRepo(stock *stubStockRepo) *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product), stock: stock}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	for _, existing := range r.products {
		if existing.CodeModele == p.CodeModele {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	if r.stock != nil {
		clone.Stock = r.stock.entriesFor(id)
	}
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		switch filter.Actif {
		case "false":
			if p.Actif {
				continue
			}
		case "all":
		default:
			if !p.Actif {
				continue
			}
		}
		if filter.Recherche != "" &&
			!strings.Contains(strings.ToLower(p.Nom), strings.ToLower(filter.Recherche)) &&
			!strings.Contains(strings.ToLower(p.CodeModele), strings.ToLower(filter.Recherche)) {
			continue
		}
		clone := *p
		if r.stock != nil {
			clone.Stock = r.stock.entriesFor(p.ID)
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	for id, existing := range r.products {
		if id != p.ID && existing.CodeModele == p.CodeModele {
			return gorm.ErrDuplicatedKey
		}
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Actif = false
	return nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

type stockKey struct {
	productID uuid.UUID
	taille    string
}

type stubStockRepo struct {
	entries  map[stockKey]*model.StockEntry
	products *stubProductRepo
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{entries: make(map[stockKey]*model.StockEntry)}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) entriesFor(productID uuid.UUID) []model.StockEntry {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Taille < out[j].Taille })
	return out
}

func (r *stubStockRepo) FindEntry(_ context.Context, productID uuid.UUID, taille string) (*model.StockEntry, error) {
	e, ok := r.entries[stockKey{productID, taille}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubStockRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockEntry, error) {
	return r.entriesFor(productID), nil
}

func (r *stubStockRepo) ListSellable(_ context.Context) ([]model.StockEntry, error) {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.QuantiteActuelle <= 0 {
			continue
		}
		var product *model.Product
		if r.products != nil {
			if p, ok := r.products.products[e.ProductID]; ok {
				product = p
			}
		}
		if product == nil || !product.Actif {
			continue
		}
		clone := *e
		clone.Product = product
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID.String() < out[j].ProductID.String()
		}
		return out[i].Taille < out[j].Taille
	})
	return out, nil
}

func (r *stubStockRepo) ListAlertes(_ context.Context) ([]model.StockEntry, error) {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.QuantiteActuelle > e.SeuilAlerte {
			continue
		}
		clone := *e
		if r.products != nil {
			if p, ok := r.products.products[e.ProductID]; ok {
				if !p.Actif {
					continue
				}
				clone.Product = p
			}
		}
		out = append(out, clone)
	}
	return out, nil
}

func (r *stubStockRepo) UpsertTx(_ *gorm.DB, productID uuid.UUID, taille string, quantite int) error {
	key := stockKey{productID, taille}
	if e, ok := r.entries[key]; ok {
		e.QuantiteActuelle = quantite
		e.QuantiteInitiale = quantite
		return nil
	}
	r.entries[key] = &model.StockEntry{
		ID:               uuid.New(),
		ProductID:        productID,
		Taille:           taille,
		QuantiteActuelle: quantite,
		QuantiteInitiale: quantite,
		SeuilAlerte:      model.DefaultSeuilAlerte,
	}
	return nil
}

func (r *stubStockRepo) AdjustTx(_ *gorm.DB, productID uuid.UUID, taille string, delta int) (int64, error) {
	e, ok := r.entries[stockKey{productID, taille}]
	if !ok || e.QuantiteActuelle+delta < 0 {
		return 0, nil
	}
	e.QuantiteActuelle += delta
	return 1, nil
}

func (r *stubStockRepo) SetQuantiteTx(_ *gorm.DB, productID uuid.UUID, taille string, quantite int) (int64, error) {
	e, ok := r.entries[stockKey{productID, taille}]
	if !ok {
		return 0, nil
	}
	e.QuantiteActuelle = quantite
	return 1, nil
}

// ── Work plans ────────────────────────────────────────────────────────────────

type stubWorkPlanRepo struct {
	plans map[uuid.UUID]*model.WorkPlan
}

func newStubWorkPlanRepo() *stubWorkPlanRepo {
	return &stubWorkPlanRepo{plans: make(map[uuid.UUID]*model.WorkPlan)}
}

func (r *stubWorkPlanRepo) DB() *gorm.DB { return nil }

func (r *stubWorkPlanRepo) FindByDate(_ context.Context, date string) (*model.WorkPlan, error) {
	for _, p := range r.plans {
		if p.DateTravail == date {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubWorkPlanRepo) FindByID(_ context.Context, id uuid.UUID) (*model.WorkPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubWorkPlanRepo) CreateTx(_ *gorm.DB, plan *model.WorkPlan) error {
	for _, p := range r.plans {
		if p.DateTravail == plan.DateTravail {
			return gorm.ErrDuplicatedKey
		}
	}
	plan.ID = uuid.New()
	r.plans[plan.ID] = plan
	return nil
}

func (r *stubWorkPlanRepo) CreateLignesTx(_ *gorm.DB, lignes []model.WorkPlanLine) error {
	for i := range lignes {
		lignes[i].ID = uuid.New()
		plan := r.plans[lignes[i].WorkPlanID]
		plan.Lignes = append(plan.Lignes, lignes[i])
	}
	return nil
}

func (r *stubWorkPlanRepo) UpdateLigneTx(_ *gorm.DB, ligne *model.WorkPlanLine) error {
	for _, p := range r.plans {
		for i := range p.Lignes {
			if p.Lignes[i].ID == ligne.ID {
				p.Lignes[i] = *ligne
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubWorkPlanRepo) SetClotureTx(_ *gorm.DB, id uuid.UUID) error {
	p, ok := r.plans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Cloture = true
	return nil
}

func (r *stubWorkPlanRepo) FindByDateTx(_ *gorm.DB, date string) (*model.WorkPlan, error) {
	return r.FindByDate(context.Background(), date)
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	s.ID = uuid.New()
	for i := range s.Items {
		s.Items[i].ID = uuid.New()
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Date != "" && s.DateVente.Format("2006-01-02") != filter.Date {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.DateVente.Before(from) || s.DateVente.After(to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// ── Categories ────────────────────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range r.categories {
		if existing.Nom == c.Nom {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	for id, existing := range r.categories {
		if id != c.ID && existing.Nom == c.Nom {
			return gorm.ErrDuplicatedKey
		}
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

// ── Activity logs ─────────────────────────────────────────────────────────────

type stubActivityRepo struct {
	logs []model.ActivityLog
}

func newStubActivityRepo() *stubActivityRepo { return &stubActivityRepo{} }

func (r *stubActivityRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *stubActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]model.ActivityLog, int64, error) {
	var matched []model.ActivityLog
	for _, l := range r.logs {
		if filter.ActionType != "" && l.ActionType != filter.ActionType {
			continue
		}
		if filter.UserID != "" && l.UserID.String() != filter.UserID {
			continue
		}
		matched = append(matched, l)
	}
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubActivityRepo) ListForExport(_ context.Context, _, _ string) ([]model.ActivityLog, error) {
	out := make([]model.ActivityLog, len(r.logs))
	copy(out, r.logs)
	if len(out) > repository.ExportLimit {
		out = out[:repository.ExportLimit]
	}
	return out, nil
}
