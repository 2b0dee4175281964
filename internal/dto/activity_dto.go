package dto

import "encoding/json"

// ActivityRequest is the action-discriminated envelope of the activity-log
// endpoint (actions: log | fetch | export). Flat wire format, per-action
// required-field checks in the service.
type ActivityRequest struct {
	Action string `json:"action" validate:"required,oneof=log fetch export"`

	// log
	ActionType string          `json:"action_type"`
	EntityType *string         `json:"entity_type"`
	EntityID   *string         `json:"entity_id"`
	EntityName *string         `json:"entity_name"`
	Details    json.RawMessage `json:"details"`

	// fetch
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	UserID *string `json:"user_id"`

	// fetch + export
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`

	// export
	Format string `json:"format"` // csv (default) | json
}

type ActivityLogResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name"`
	ActionType string          `json:"action_type"`
	EntityType *string         `json:"entity_type"`
	EntityID   *string         `json:"entity_id"`
	EntityName *string         `json:"entity_name"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  string          `json:"created_at"`
}

// One response type per action.

type LogActivityResponse struct {
	Success bool                `json:"success"`
	Log     ActivityLogResponse `json:"log"`
}

type FetchLogsResponse struct {
	Logs       []ActivityLogResponse `json:"logs"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"totalPages"`
}

type ExportLogsCSVResponse struct {
	CSV string `json:"csv"`
}

type ExportLogsJSONResponse struct {
	Logs []ActivityLogResponse `json:"logs"`
}
