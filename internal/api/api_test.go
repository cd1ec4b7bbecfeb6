package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func postEvent(t *testing.T, a *API, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "https://test.com/api/wyze/doorbell", strings.NewReader(body))
	w := httptest.NewRecorder()
	a.ReceiveDoorbellEvent(w, r)
	return w
}

func Test_ReceiveDoorbellEvent_Validation(t *testing.T) {
	cases := []struct {
		name           string
		payload        DoorbellEventPayload
		expectedStatus int
		expectedFields []string
	}{
		{
			name: "missing event type",
			payload: DoorbellEventPayload{
				DeviceMac:    "AA:BB:CC:DD:EE:FF",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"eventType"},
		},
		{
			name: "missing device mac",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"deviceMac"},
		},
		{
			name: "missing event time",
			payload: DoorbellEventPayload{
				EventType: intPtr(2005),
				DeviceMac: "AA:BB:CC:DD:EE:FF",
			},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"eventTimeUtc"},
		},
		{
			name:           "all fields missing",
			payload:        DoorbellEventPayload{},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"eventType", "deviceMac", "eventTimeUtc"},
		},
		{
			name: "mac not an address",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "not-a-mac",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"deviceMac"},
		},
		{
			name: "mac too short",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "AA:BB:CC",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"deviceMac"},
		},
		{
			name: "colon separated mac",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "AA:BB:CC:DD:EE:FF",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "hyphen separated mac",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "aa-bb-cc-dd-ee-ff",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "contiguous mac",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "AABBCCDDEEFF",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "mixed case mac",
			payload: DoorbellEventPayload{
				EventType:    intPtr(2005),
				DeviceMac:    "aA:Bb:CC:dd:Ee:fF",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "event type zero is present",
			payload: DoorbellEventPayload{
				EventType:    intPtr(0),
				DeviceMac:    "AA:BB:CC:DD:EE:FF",
				EventTimeUtc: "2024-01-15T10:30:00Z",
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			a := New(Config{Logger: slog.New(slog.NewJSONHandler(&logBuf, nil))})

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			w := postEvent(t, a, string(body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				var resp ValidationErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				for _, field := range tt.expectedFields {
					assert.Contains(t, resp.Errors, field)
				}
				assert.NotContains(t, logBuf.String(), "Doorbell event received")
				assert.Contains(t, logBuf.String(), "Invalid doorbell payload received")
			}
		})
	}
}

func Test_ReceiveDoorbellEvent_UndecodableBody(t *testing.T) {
	a := New(Config{Logger: slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))})
	w := postEvent(t, a, `not-a-json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_ReceiveDoorbellEvent_Ack(t *testing.T) {
	var logBuf bytes.Buffer
	a := New(Config{Logger: slog.New(slog.NewJSONHandler(&logBuf, nil))})

	w := postEvent(t, a, `{"eventType":2005,"deviceMac":"AA:BB:CC:DD:EE:FF","eventTimeUtc":"2024-01-15T10:30:00Z","message":"Doorbell Button Pressed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var ack AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "Success", ack.Status)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", ack.Received)

	parsed, err := time.Parse(time.RFC3339, "2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Contains(t, logBuf.String(), "Doorbell event received")
	assert.Contains(t, logBuf.String(), parsed.Local().Format(time.RFC3339))
	assert.NotContains(t, logBuf.String(), "Unparseable event timestamp")
}

func Test_ReceiveDoorbellEvent_BadTimestampStillSucceeds(t *testing.T) {
	var logBuf bytes.Buffer
	a := New(Config{Logger: slog.New(slog.NewJSONHandler(&logBuf, nil))})

	w := postEvent(t, a, `{"eventType":2005,"deviceMac":"AABBCCDDEEFF","eventTimeUtc":"not-a-date"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var ack AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "Success", ack.Status)
	assert.Equal(t, "AABBCCDDEEFF", ack.Received)

	assert.Contains(t, logBuf.String(), "Unparseable event timestamp")
	assert.Contains(t, logBuf.String(), "not-a-date")
	assert.Contains(t, logBuf.String(), "Doorbell event received")
	assert.NotContains(t, logBuf.String(), "event_time_local")
}

func Test_ReceiveDoorbellEvent_Idempotent(t *testing.T) {
	a := New(Config{Logger: slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))})
	body := `{"eventType":2005,"deviceMac":"AA:BB:CC:DD:EE:FF","eventTimeUtc":"2024-01-15T10:30:00Z"}`

	first := postEvent(t, a, body)
	second := postEvent(t, a, body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}
