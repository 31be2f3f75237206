package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldProvider   = "provider"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDate       = "date"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldSquadID    = "squad_id"
	FieldPlayerID   = "player_id"
	FieldRejection  = "rejection"
	FieldGameweek   = "gameweek"
	FieldError      = "error"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}

// SquadAttrs tags a log entry with the squad and, when positive, the player.
func SquadAttrs(squadID string, playerID int) []any {
	attrs := []any{slog.String(FieldSquadID, squadID)}
	if playerID > 0 {
		attrs = append(attrs, slog.Int(FieldPlayerID, playerID))
	}
	return attrs
}
