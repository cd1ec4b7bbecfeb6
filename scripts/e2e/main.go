package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Steps:
// 1. POST a valid button press and check the 200 ack body
// 2. POST payloads with missing fields and a malformed MAC, expect 400
//    with per-field errors
// 3. POST a payload with an unparseable timestamp, expect it still succeeds
// 4. POST the same valid payload twice and compare the ack bodies

const baseURL = "http://localhost:5000"

var failures int

func check(name string, ok bool, detail string) {
	if ok {
		fmt.Printf("PASS %s\n", name)
		return
	}
	failures++
	fmt.Printf("FAIL %s: %s\n", name, detail)
}

func post(payload string) (int, string) {
	resp, err := http.Post(baseURL+"/api/wyze/doorbell", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		panic(fmt.Errorf("POST failed: %w", err))
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func main() {
	now := time.Now().UTC().Format(time.RFC3339)

	// Valid button press
	valid := fmt.Sprintf(`{"eventType":2005,"deviceMac":"AA:BB:CC:DD:EE:FF","eventTimeUtc":%q,"message":"Doorbell Button Pressed"}`, now)
	status, body := post(valid)
	check("valid payload status", status == http.StatusOK, fmt.Sprintf("got %d: %s", status, body))
	var ack struct {
		Status   string `json:"status"`
		Received string `json:"received"`
	}
	json.Unmarshal([]byte(body), &ack)
	check("ack status marker", ack.Status == "Success", body)
	check("ack echoes mac", ack.Received == "AA:BB:CC:DD:EE:FF", body)

	// Missing fields
	status, body = post(`{"deviceMac":"AA:BB:CC:DD:EE:FF","eventTimeUtc":"2024-01-15T10:30:00Z"}`)
	check("missing eventType rejected", status == http.StatusBadRequest, fmt.Sprintf("got %d", status))
	check("missing eventType named", strings.Contains(body, "eventType"), body)

	status, _ = post(fmt.Sprintf(`{"eventType":2005,"eventTimeUtc":%q}`, now))
	check("missing deviceMac rejected", status == http.StatusBadRequest, fmt.Sprintf("got %d", status))

	status, _ = post(`{"eventType":2005,"deviceMac":"AA:BB:CC:DD:EE:FF"}`)
	check("missing eventTimeUtc rejected", status == http.StatusBadRequest, fmt.Sprintf("got %d", status))

	// Malformed MAC
	status, body = post(fmt.Sprintf(`{"eventType":2005,"deviceMac":"AA:BB:CC","eventTimeUtc":%q}`, now))
	check("short mac rejected", status == http.StatusBadRequest, fmt.Sprintf("got %d", status))
	check("mac error named", strings.Contains(body, "deviceMac"), body)

	// Unparseable timestamp is tolerated
	status, _ = post(`{"eventType":2005,"deviceMac":"AABBCCDDEEFF","eventTimeUtc":"not-a-date"}`)
	check("bad timestamp tolerated", status == http.StatusOK, fmt.Sprintf("got %d", status))

	// Idempotence
	_, first := post(valid)
	_, second := post(valid)
	check("repeated request identical ack", first == second, fmt.Sprintf("%s vs %s", first, second))

	if failures > 0 {
		fmt.Printf("%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("All checks passed")
}
