package shared

import (
	"net/http"

	"leavedesk/internal/transport/http/api"
)

// FailValidation writes the standard validation failure envelope with the
// full list of field issues so the form can mark every violated field.
func FailValidation(w http.ResponseWriter, requestID string, fields any) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": fields},
		requestID,
	)
}
