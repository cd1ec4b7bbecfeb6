package api

// DoorbellEventPayload is the request body for POST /api/wyze/doorbell.
// EventType is a pointer so a missing field can be told apart from code 0.
type DoorbellEventPayload struct {
	EventType    *int   `json:"eventType"`
	DeviceMac    string `json:"deviceMac"`
	EventTimeUtc string `json:"eventTimeUtc"`
	Message      string `json:"message"`
}

type AckResponse struct {
	Status   string `json:"status"`
	Received string `json:"received"`
}

type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}
