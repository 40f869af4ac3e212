package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{"none", nil, options{}},
		{"debug", []string{"-d"}, options{debug: true}},
		{"api separate", []string{"--api", "http://hub:9000"}, options{apiURL: "http://hub:9000"}},
		{"api inline", []string{"--api=http://hub:9000", "--debug"}, options{apiURL: "http://hub:9000", debug: true}},
		{"config", []string{"-c", "/etc/hub.toml"}, options{configPath: "/etc/hub.toml"}},
		{"help and version", []string{"-h", "--version"}, options{help: true, version: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := parseArgs([]string{"--api"})
	assert.ErrorContains(t, err, "needs a value")

	_, err = parseArgs([]string{"nodes.json"})
	assert.ErrorContains(t, err, "unknown argument")
}
