package main

import (
	"context"
	"errors"
	"testing"

	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

func TestNodesCommand(t *testing.T) {
	tests := []struct {
		name           string
		search         string
		depth          int
		all            bool
		ids            bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "whole tree",
			wantContain: []string{
				"Objects\n",
				"  Boiler\n",
				"    [H] Temperature (Double)\n",
				"    [ ] Pressure (Double)\n",
				"    [ ] Speed (Float)\n",
				"Server\n",
			},
		},
		{
			name:           "search keeps ancestors",
			search:         "speed",
			wantContain:    []string{"Objects", "  Pump", "[ ] Speed (Float)", `1 node(s) match "speed"`},
			wantNotContain: []string{"Boiler", "Server"},
		},
		{
			name:        "search with all",
			search:      "speed",
			all:         true,
			wantContain: []string{"Boiler", "Server", "Speed"},
		},
		{
			name:           "depth limit",
			depth:          1,
			wantContain:    []string{"Objects\n", "Server\n"},
			wantNotContain: []string{"Boiler"},
		},
		{
			name:        "with ids",
			ids:         true,
			wantContain: []string{"[ ] Speed (Float)  ns=2;s=Pump.Speed", "Objects  i=85"},
		},
		{
			name:           "json",
			search:         "temperature",
			wantJSON:       true,
			wantContain:    []string{"ns=2;s=Boiler.Temperature", `"historyEnabled": true`},
			wantNotContain: []string{"Pump"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			startHub(t)
			nodesSearch = tt.search
			nodesDepth = tt.depth
			nodesAll = tt.all
			nodesShowIDs = tt.ids
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runNodes(context.Background())
			})
			if err != nil {
				t.Fatalf("runNodes() error = %v\nOutput: %s", err, output)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestNodesCommand_HubDown(t *testing.T) {
	hub := startHub(t)
	hub.FailNodes(true)

	_, err := captureOutput(t, func() error {
		return runNodes(context.Background())
	})

	if !errors.Is(err, hubapi.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestNodesCommand_Unreachable(t *testing.T) {
	startHub(t)
	apiURL = "http://127.0.0.1:1"

	_, err := captureOutput(t, func() error {
		return runNodes(context.Background())
	})

	if !errors.Is(err, hubapi.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestNodesCommand_InvalidAPIURL(t *testing.T) {
	startHub(t)
	apiURL = "ftp://hub"

	_, err := captureOutput(t, func() error {
		return runNodes(context.Background())
	})

	if err == nil {
		t.Fatal("expected an error for a non-HTTP API URL")
	}
}
