package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Colon- or hyphen-separated octet pairs, or 12 contiguous hex digits.
var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$|^[0-9A-Fa-f]{12}$`)

type API struct {
	logger *slog.Logger
}

type Config struct {
	Logger *slog.Logger
}

func New(cfg Config) *API {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{logger: logger}
}

func (a *API) ReceiveDoorbellEvent(w http.ResponseWriter, r *http.Request) {
	var payload DoorbellEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if errs := validatePayload(payload); len(errs) > 0 {
		a.logger.ErrorContext(r.Context(), "Invalid doorbell payload received",
			"errors", errs,
			"device_mac", payload.DeviceMac,
		)
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: errs})
		return
	}

	receivedAt := time.Now().UTC()
	receiptID := uuid.NewString()

	attrs := []any{
		"receipt_id", receiptID,
		"received_at", receivedAt.Format(time.RFC3339),
		"device_mac", payload.DeviceMac,
		"event_type", *payload.EventType,
		"message", payload.Message,
	}
	if eventTime, err := time.Parse(time.RFC3339, payload.EventTimeUtc); err != nil {
		// Tolerated: the timestamp is informational only.
		a.logger.WarnContext(r.Context(), "Unparseable event timestamp",
			"receipt_id", receiptID,
			"event_time_utc", payload.EventTimeUtc,
		)
	} else {
		attrs = append(attrs, "event_time_local", eventTime.Local().Format(time.RFC3339))
	}
	a.logger.InfoContext(r.Context(), "Doorbell event received", attrs...)

	// Application logic for the event (notification fan-out, event type
	// dispatch, use of the parsed timestamp) attaches here.

	writeJSON(w, http.StatusOK, AckResponse{
		Status:   "Success",
		Received: payload.DeviceMac,
	})
}

func validatePayload(payload DoorbellEventPayload) map[string]string {
	errs := make(map[string]string)
	if payload.EventType == nil {
		errs["eventType"] = "eventType is required"
	}
	if payload.DeviceMac == "" {
		errs["deviceMac"] = "deviceMac is required"
	} else if !macPattern.MatchString(payload.DeviceMac) {
		errs["deviceMac"] = "deviceMac must be a valid MAC address"
	}
	if payload.EventTimeUtc == "" {
		errs["eventTimeUtc"] = "eventTimeUtc is required"
	}
	return errs
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
