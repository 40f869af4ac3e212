package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opcua-hub/hubexplorer/internal/hubtest"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

func TestTelegrafStatusCommand(t *testing.T) {
	tests := []struct {
		name        string
		upToDate    bool
		wantJSON    bool
		wantContain []string
	}{
		{name: "up to date", upToDate: true, wantContain: []string{"Telegraf config is up to date."}},
		{name: "stale", upToDate: false, wantContain: []string{"Telegraf config requires an update."}},
		{name: "json", upToDate: false, wantJSON: true, wantContain: []string{`"upToDate": false`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := startHub(t)
			hub.SetTelegrafUpToDate(tt.upToDate)
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runTelegrafStatus(context.Background())
			})
			if err != nil {
				t.Fatalf("runTelegrafStatus() error = %v", err)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestTelegrafPendingCommand(t *testing.T) {
	hub := startHub(t)

	output, err := captureOutput(t, func() error {
		return runTelegrafPending(context.Background())
	})
	if err != nil {
		t.Fatalf("runTelegrafPending() error = %v", err)
	}
	assertContains(t, output, []string{"No pending updates."})

	hub.SetPending([]hubapi.UpdateRequired{
		{NodeID: hubtest.BoilerPressID, DBActionRequired: "Added"},
		{NodeID: hubtest.PumpSpeedID, DBActionRequired: "History Disabled No Change"},
	})
	output, err = captureOutput(t, func() error {
		return runTelegrafPending(context.Background())
	})
	if err != nil {
		t.Fatalf("runTelegrafPending() error = %v", err)
	}
	assertContains(t, output, []string{"NODE ID", hubtest.BoilerPressID, "Added", "History Disabled No Change"})

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runTelegrafPending(context.Background())
	})
	if err != nil {
		t.Fatalf("runTelegrafPending() error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"dbActionRequired": "Added"`})
}

func TestTelegrafUpdateCommand(t *testing.T) {
	tests := []struct {
		name      string
		yes       bool
		input     string
		fail      bool
		wantErr   string
		wantCalls int
	}{
		{name: "yes flag", yes: true, wantCalls: 1},
		{name: "confirmed", input: "y\n", wantCalls: 1},
		{name: "confirmed without newline", input: "yes", wantCalls: 1},
		{name: "declined", input: "n\n", wantErr: "aborted"},
		{name: "empty answer", input: "\n", wantErr: "aborted"},
		{name: "hub failure", yes: true, fail: true, wantErr: "telegraf restart failed", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := startHub(t)
			hub.SetPending([]hubapi.UpdateRequired{{NodeID: hubtest.PumpSpeedID, DBActionRequired: "Added"}})
			hub.SetTelegrafUpToDate(false)
			hub.FailTelegraf(tt.fail)
			telegrafYes = tt.yes
			stdin = strings.NewReader(tt.input)

			output, err := captureOutput(t, func() error {
				return runTelegrafUpdate(context.Background())
			})

			if got := hub.TelegrafCalls(); got != tt.wantCalls {
				t.Errorf("hub received %d Telegraf updates, want %d", got, tt.wantCalls)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("runTelegrafUpdate() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("runTelegrafUpdate() error = %v", err)
			}
			assertContains(t, output, []string{hubtest.PumpSpeedID, "Telegraf config updated."})
		})
	}
}

func TestTelegrafUpdateCommand_DeclineIsErrAborted(t *testing.T) {
	startHub(t)
	stdin = strings.NewReader("no\n")

	_, err := captureOutput(t, func() error {
		return runTelegrafUpdate(context.Background())
	})

	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
