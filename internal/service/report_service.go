package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReportService aggregates sales history into period summaries. Summaries
// are cached in redis for a short TTL since the dashboard polls them.
type ReportService interface {
	Summary(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error)
	// ExportCSV renders the same summary as a CSV document with French
	// column headers, one row per day of the range.
	ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
}

type reportService struct {
	sales    repository.SaleRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewReportService(sales repository.SaleRepository, rdb *redis.Client, cacheTTL time.Duration) ReportService {
	return &reportService{sales: sales, rdb: rdb, cacheTTL: cacheTTL}
}

const topProduitsLimit = 10

func (s *reportService) Summary(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error) {
	from, to, err := parseRange(filter)
	if err != nil {
		return nil, err
	}

	cacheKey := "report:" + filter.From + ":" + filter.To
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ReportResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	resp, err := s.aggregate(ctx, filter, from, to)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("report cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *reportService) aggregate(ctx context.Context, filter dto.ReportFilter, from, to time.Time) (*dto.ReportResponse, error) {
	sales, err := s.sales.ListBetween(ctx, from, to)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger l'historique des ventes", err)
	}

	total := decimal.Zero
	byDay := make(map[string]*dto.DailyBucket)
	type productAgg struct {
		nom      string
		quantite int
		montant  decimal.Decimal
	}
	byProduct := make(map[string]*productAgg)

	for i := range sales {
		sale := &sales[i]
		total = total.Add(sale.MontantTotal)

		day := sale.DateVente.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &dto.DailyBucket{Date: day, Total: decimal.Zero}
			byDay[day] = bucket
		}
		bucket.Total = bucket.Total.Add(sale.MontantTotal)
		bucket.Count++

		for _, item := range sale.Items {
			if item.Product == nil {
				continue
			}
			agg, ok := byProduct[item.Product.CodeModele]
			if !ok {
				agg = &productAgg{nom: item.Product.Nom, montant: decimal.Zero}
				byProduct[item.Product.CodeModele] = agg
			}
			agg.quantite += item.Quantite
			agg.montant = agg.montant.Add(item.PrixTotal)
		}
	}

	// Every calendar day of the range appears, zero-filled when nothing sold.
	var parJour []dto.DailyBucket
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		if bucket, ok := byDay[day]; ok {
			parJour = append(parJour, *bucket)
		} else {
			parJour = append(parJour, dto.DailyBucket{Date: day, Total: decimal.Zero})
		}
	}

	codes := make([]string, 0, len(byProduct))
	for code := range byProduct {
		codes = append(codes, code)
	}
	// Revenue descending, code_modele ascending on ties.
	sort.Slice(codes, func(i, j int) bool {
		a, b := byProduct[codes[i]], byProduct[codes[j]]
		if !a.montant.Equal(b.montant) {
			return a.montant.GreaterThan(b.montant)
		}
		return codes[i] < codes[j]
	})
	if len(codes) > topProduitsLimit {
		codes = codes[:topProduitsLimit]
	}
	top := make([]dto.TopProductEntry, 0, len(codes))
	for _, code := range codes {
		agg := byProduct[code]
		top = append(top, dto.TopProductEntry{
			CodeModele: code,
			Nom:        agg.nom,
			Quantite:   agg.quantite,
			Montant:    agg.montant,
		})
	}

	moyenne := decimal.Zero
	if len(sales) > 0 {
		// Amounts are whole GNF; the average rounds to the franc.
		moyenne = total.Div(decimal.NewFromInt(int64(len(sales)))).Round(0)
	}

	return &dto.ReportResponse{
		From:         filter.From,
		To:           filter.To,
		TotalVentes:  total,
		NombreVentes: len(sales),
		MoyenneVente: moyenne,
		ParJour:      parJour,
		TopProduits:  top,
	}, nil
}

func (s *reportService) ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	from, to, err := parseRange(filter)
	if err != nil {
		return nil, err
	}
	resp, err := s.aggregate(ctx, filter, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Nombre de ventes", "Total (GNF)"})
	for _, bucket := range resp.ParJour {
		_ = w.Write([]string{bucket.Date, strconv.Itoa(bucket.Count), bucket.Total.String()})
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(resp.NombreVentes), resp.TotalVentes.String()})
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apierror.Transient("Impossible de générer le CSV", err)
	}
	return buf.Bytes(), nil
}

func parseRange(filter dto.ReportFilter) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", filter.From)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.Validation("Date de début invalide, format attendu YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", filter.To)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.Validation("Date de fin invalide, format attendu YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apierror.Validation("La date de fin doit être postérieure à la date de début")
	}
	// Include the whole final day.
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
