// Runs the event bridge against a file-backed event source.
//
// The real deployment would implement bridge.Source against the Wyze cloud
// events API; this harness replays newline-delimited JSON events from a file
// so the receiver can be exercised end to end without Wyze credentials.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mackelprangj/WyzeDoorbell/internal/bridge"
	"github.com/Mackelprangj/WyzeDoorbell/internal/config"
)

type fileEvent struct {
	EventType int    `json:"eventType"`
	DeviceMac string `json:"deviceMac"`
	EventTime string `json:"eventTime"`
}

type fileSource struct {
	events []bridge.Event
}

func (s *fileSource) ListEvents(ctx context.Context, deviceMac string, start, end time.Time) ([]bridge.Event, error) {
	var window []bridge.Event
	for _, event := range s.events {
		if event.DeviceMac != deviceMac {
			continue
		}
		if event.EventTime.After(start) && !event.EventTime.After(end) {
			window = append(window, event)
		}
	}
	return window, nil
}

func loadEvents(path string) (*fileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer file.Close()

	source := &fileSource{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var raw fileEvent
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			fmt.Printf("skipping undecodable event line: %v\n", err)
			continue
		}
		eventTime, err := time.Parse(time.RFC3339, raw.EventTime)
		if err != nil {
			fmt.Printf("skipping event with bad eventTime %q: %v\n", raw.EventTime, err)
			continue
		}
		source.events = append(source.events, bridge.Event{
			EventType: raw.EventType,
			DeviceMac: raw.DeviceMac,
			EventTime: eventTime,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading events file: %w", err)
	}
	return source, nil
}

func main() {
	eventsPath := flag.String("events", "events.json", "newline-delimited JSON event history to replay")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if cfg.DoorbellMac == "" {
		panic("DOORBELL_MAC_ID must be set")
	}

	source, err := loadEvents(*eventsPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	b := bridge.New(bridge.Config{
		Source:       source,
		TargetURL:    cfg.BridgeTargetURL,
		DeviceMac:    cfg.DoorbellMac,
		PollInterval: cfg.PollInterval,
	})
	b.Run(ctx)
}
