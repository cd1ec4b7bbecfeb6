package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type DoorbellEventPayload struct {
	EventType    int    `json:"eventType"`
	DeviceMac    string `json:"deviceMac"`
	EventTimeUtc string `json:"eventTimeUtc"`
	Message      string `json:"message"`
}

func post(baseURL string, payload any) {
	body, _ := json.Marshal(payload)
	fmt.Println("Payload:", string(body))
	resp, err := http.Post(baseURL+"/api/wyze/doorbell", "application/json", bytes.NewBuffer(body))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	fmt.Println("POST /api/wyze/doorbell status:", resp.Status)
	respBody, _ := io.ReadAll(resp.Body)
	fmt.Println("Response body:", string(respBody))
}

func main() {
	baseURL := "http://localhost:5000"

	// 1. A valid button press
	post(baseURL, DoorbellEventPayload{
		EventType:    2005,
		DeviceMac:    "AA:BB:CC:DD:EE:FF",
		EventTimeUtc: time.Now().UTC().Format(time.RFC3339),
		Message:      "Doorbell Button Pressed",
	})

	// 2. A press with an unparseable timestamp (still accepted)
	post(baseURL, DoorbellEventPayload{
		EventType:    2005,
		DeviceMac:    "AABBCCDDEEFF",
		EventTimeUtc: "not-a-date",
	})

	// 3. A bad MAC (rejected with field errors)
	post(baseURL, DoorbellEventPayload{
		EventType:    2005,
		DeviceMac:    "not-a-mac",
		EventTimeUtc: time.Now().UTC().Format(time.RFC3339),
	})
}
