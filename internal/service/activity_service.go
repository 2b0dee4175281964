package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"makiti/internal/apierror"
	"makiti/internal/dto"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/worker"

	"gorm.io/datatypes"
)

const (
	fetchDefaultLimit = 50
	fetchMaxLimit     = 200
)

// ActivityService implements the audit-trail endpoint: explicit log writes
// from clients, paginated fetches, and CSV/JSON exports. Log is synchronous
// (the caller gets the persisted row back); internal service events go
// through the redis queue instead.
type ActivityService interface {
	Log(ctx context.Context, actor worker.Actor, req dto.ActivityRequest) (*dto.LogActivityResponse, error)
	Fetch(ctx context.Context, req dto.ActivityRequest) (*dto.FetchLogsResponse, error)
	ExportCSV(ctx context.Context, req dto.ActivityRequest) (*dto.ExportLogsCSVResponse, error)
	ExportJSON(ctx context.Context, req dto.ActivityRequest) (*dto.ExportLogsJSONResponse, error)
}

type activityService struct {
	logs repository.ActivityLogRepository
}

func NewActivityService(logs repository.ActivityLogRepository) ActivityService {
	return &activityService{logs: logs}
}

func (s *activityService) Log(ctx context.Context, actor worker.Actor, req dto.ActivityRequest) (*dto.LogActivityResponse, error) {
	if req.ActionType == "" {
		return nil, apierror.Validation("Le champ action_type est requis")
	}
	if !model.ActionTypeValide(req.ActionType) {
		return nil, apierror.Validation("Type d'action inconnu: " + req.ActionType)
	}

	entry := &model.ActivityLog{
		UserID:     actor.ID,
		UserName:   actor.Nom,
		ActionType: req.ActionType,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		EntityName: req.EntityName,
	}
	if len(req.Details) > 0 {
		if !json.Valid(req.Details) {
			return nil, apierror.Validation("Le champ details doit être un objet JSON valide")
		}
		entry.Details = datatypes.JSON(req.Details)
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, apierror.Transient("Impossible d'enregistrer l'activité", err)
	}
	return &dto.LogActivityResponse{Success: true, Log: activityToResponse(entry)}, nil
}

func (s *activityService) Fetch(ctx context.Context, req dto.ActivityRequest) (*dto.FetchLogsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = fetchDefaultLimit
	}
	if limit > fetchMaxLimit {
		limit = fetchMaxLimit
	}

	filter := repository.ActivityFilter{Page: page, Limit: limit}
	if req.ActionType != "" {
		filter.ActionType = req.ActionType
	}
	if req.UserID != nil {
		filter.UserID = *req.UserID
	}
	if req.StartDate != nil {
		filter.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		filter.EndDate = *req.EndDate
	}

	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transient("Impossible de charger le journal d'activité", err)
	}

	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, activityToResponse(&logs[i]))
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.FetchLogsResponse{Logs: out, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

func (s *activityService) ExportCSV(ctx context.Context, req dto.ActivityRequest) (*dto.ExportLogsCSVResponse, error) {
	logs, err := s.listForExport(ctx, req)
	if err != nil {
		return nil, err
	}

	// Hand-built CSV: fields are quoted with internal quotes doubled, the
	// action column uses the French label.
	var b strings.Builder
	b.WriteString("Date,Utilisateur,Action,Entité,Détails\n")
	for i := range logs {
		entry := &logs[i]
		label := model.ActionLabels[entry.ActionType]
		if label == "" {
			label = entry.ActionType
		}
		entite := ""
		if entry.EntityName != nil {
			entite = *entry.EntityName
		} else if entry.EntityType != nil {
			entite = *entry.EntityType
		}
		details := ""
		if len(entry.Details) > 0 {
			details = string(entry.Details)
		}
		row := []string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.UserName,
			label,
			entite,
			details,
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvQuote(field))
		}
		b.WriteByte('\n')
	}
	return &dto.ExportLogsCSVResponse{CSV: b.String()}, nil
}

func (s *activityService) ExportJSON(ctx context.Context, req dto.ActivityRequest) (*dto.ExportLogsJSONResponse, error) {
	logs, err := s.listForExport(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, activityToResponse(&logs[i]))
	}
	return &dto.ExportLogsJSONResponse{Logs: out}, nil
}

func (s *activityService) listForExport(ctx context.Context, req dto.ActivityRequest) ([]model.ActivityLog, error) {
	start, end := "", ""
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	logs, err := s.logs.ListForExport(ctx, start, end)
	if err != nil {
		return nil, apierror.Transient("Impossible d'exporter le journal d'activité", err)
	}
	return logs, nil
}

func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func activityToResponse(entry *model.ActivityLog) dto.ActivityLogResponse {
	resp := dto.ActivityLogResponse{
		ID:         entry.ID.String(),
		UserID:     entry.UserID.String(),
		UserName:   entry.UserName,
		ActionType: entry.ActionType,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if len(entry.Details) > 0 {
		resp.Details = json.RawMessage(entry.Details)
	}
	return resp
}
