package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Mackelprangj/WyzeDoorbell/internal/api"
	"github.com/Mackelprangj/WyzeDoorbell/internal/worker"
)

// EventTypeButtonPress is the Wyze event code for a doorbell button press.
const EventTypeButtonPress = 2005

const buttonPressMessage = "Doorbell Button Pressed"

// Startup lookback so events raised while the bridge was down are not missed.
const startupLookback = 15 * time.Second

var (
	ErrListEvents    = errors.New("error listing events")
	ErrForwardFailed = errors.New("error forwarding event")
)

// Event is one entry from the device's cloud event history.
type Event struct {
	EventType int
	DeviceMac string
	EventTime time.Time
}

// Source lists a device's events within a time window, newest or oldest
// first. The Wyze cloud events API sits behind this interface.
type Source interface {
	ListEvents(ctx context.Context, deviceMac string, start, end time.Time) ([]Event, error)
}

type Config struct {
	Source       Source
	TargetURL    string
	DeviceMac    string
	PollInterval time.Duration
	Client       *http.Client
}

// Bridge polls a Source for doorbell button presses and forwards each one
// to the receiver endpoint as a DoorbellEventPayload.
type Bridge struct {
	worker    *worker.Worker
	source    Source
	targetURL string
	deviceMac string
	client    *http.Client
	lastCheck time.Time
}

func New(cfg Config) *Bridge {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	bridge := &Bridge{
		source:    cfg.Source,
		targetURL: cfg.TargetURL,
		deviceMac: cfg.DeviceMac,
		client:    client,
		lastCheck: time.Now().UTC().Add(-startupLookback),
	}
	bridge.worker = worker.New(worker.Config{
		Name:     "bridge-poller",
		Interval: cfg.PollInterval,
		Poller:   bridge,
	})
	return bridge
}

func (b *Bridge) Run(ctx context.Context) {
	b.worker.Run(ctx)
}

// Poll reads one window of event history and forwards any button presses.
// A failed listing leaves lastCheck unchanged so the same window is retried
// on the next tick.
func (b *Bridge) Poll(ctx context.Context) {
	now := time.Now().UTC()
	events, err := b.source.ListEvents(ctx, b.deviceMac, b.lastCheck, now)
	if err != nil {
		slog.ErrorContext(ctx, "Error polling event history",
			"error", fmt.Errorf("Bridge:Poll:%w:%w", ErrListEvents, err),
			"device_mac", b.deviceMac,
		)
		return
	}

	presses := make([]Event, 0, len(events))
	latest := b.lastCheck
	for _, event := range events {
		if event.EventType == EventTypeButtonPress {
			presses = append(presses, event)
		}
		if event.EventTime.After(latest) {
			latest = event.EventTime
		}
	}

	// Oldest first, so the receiver logs presses in the order they happened.
	sort.Slice(presses, func(i, j int) bool {
		return presses[i].EventTime.Before(presses[j].EventTime)
	})
	for _, press := range presses {
		if err := b.forward(ctx, press); err != nil {
			slog.ErrorContext(ctx, "Error forwarding doorbell press",
				"error", err,
				"device_mac", press.DeviceMac,
				"event_time", press.EventTime.Format(time.RFC3339),
			)
		}
	}

	// Move just past the newest event seen so it is not re-read; an empty
	// window advances to the poll time.
	if latest.After(b.lastCheck) {
		b.lastCheck = latest.Add(time.Millisecond)
	} else {
		b.lastCheck = now
	}
}

func (b *Bridge) forward(ctx context.Context, event Event) error {
	const fn = "Bridge:forward"
	eventType := event.EventType
	payload := api.DoorbellEventPayload{
		EventType:    &eventType,
		DeviceMac:    event.DeviceMac,
		EventTimeUtc: event.EventTime.UTC().Format(time.RFC3339),
		Message:      buttonPressMessage,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrForwardFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrForwardFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrForwardFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s:%w: status %d", fn, ErrForwardFailed, resp.StatusCode)
	}
	slog.InfoContext(ctx, "Forwarded doorbell press",
		"device_mac", event.DeviceMac,
		"event_time", event.EventTime.Format(time.RFC3339),
		"status", resp.StatusCode,
	)
	return nil
}
