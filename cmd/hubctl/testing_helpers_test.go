package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/opcua-hub/hubexplorer/internal/hubtest"
)

// startHub runs a fake hub with the sample forest and points the global
// flags at it. The home directory is isolated so no user config is read.
func startHub(t *testing.T) *hubtest.Hub {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"HUB_API_URL", "HUB_API_TIMEOUT", "HUB_API_USER_AGENT", "HUB_LOG_LEVEL", "HUB_DETAIL_MODE"} {
		if v, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, v) })
		}
	}

	hub := hubtest.New(t, hubtest.SampleForest())
	resetFlags()
	apiURL = hub.URL
	return hub
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	apiURL = ""
	configPath = ""
	timeout = 0
	stdin = strings.NewReader("")

	nodesSearch = ""
	nodesDepth = 0
	nodesAll = false
	nodesShowIDs = false
	telegrafYes = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return <-done, fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
