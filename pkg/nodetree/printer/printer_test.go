package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
	"github.com/stretchr/testify/require"
)

func testForest() []nodetree.Node {
	return []nodetree.Node{
		{
			ID: "ns=2;s=Line1", Path: "Objects/Line1", DisplayName: "Line1",
			Children: []nodetree.Node{
				{ID: "ns=2;s=Line1.Rate", Path: "Objects/Line1/Rate", DisplayName: "Rate", Class: nodetree.ClassVariable, DataType: "Double", HistoryEnabled: true},
				{ID: "ns=2;s=Line1.State", Path: "Objects/Line1/State", DisplayName: "State", Class: nodetree.ClassVariable, DataType: "String"},
			},
		},
		{ID: "ns=2;s=Line2", Path: "Objects/Line2", DisplayName: "Line2"},
	}
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())

	err := p.PrintForest(nodetree.TagVisibility(testForest(), true))
	require.NoError(t, err)

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	require.Equal(t, []string{
		"Line1",
		"  [H] Rate (Double)",
		"  [ ] State (String)",
		"Line2",
	}, lines)
}

func TestPrinter_TextSkipsHidden(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())

	err := p.PrintForest(nodetree.FilterByTerm(testForest(), "rate"))
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, "Line1")
	require.Contains(t, output, "Rate")
	require.NotContains(t, output, "State")
	require.NotContains(t, output, "Line2")
}

func TestPrinter_ShowHiddenAndIDs(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowHidden = true
	opts.ShowIDs = true
	opts.ShowDataTypes = false
	p := New(&buf, opts)

	err := p.PrintForest(nodetree.FilterByTerm(testForest(), "rate"))
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, "Line2  ns=2;s=Line2")
	require.NotContains(t, output, "(Double)")
}

func TestPrinter_MaxDepth(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxDepth = 1
	p := New(&buf, opts)

	err := p.PrintForest(nodetree.TagVisibility(testForest(), true))
	require.NoError(t, err)

	require.Equal(t, "Line1\nLine2\n", buf.String())
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	p := New(&buf, opts)

	err := p.PrintForest(nodetree.TagVisibility(testForest(), true))
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	require.Equal(t, "ns=2;s=Line1", result[0]["id"])
	require.Equal(t, "other", result[0]["class"])

	children, ok := result[0]["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 2)
	rate := children[0].(map[string]any)
	require.Equal(t, "variable", rate["class"])
	require.Equal(t, true, rate["historyEnabled"])
	require.Equal(t, "Double", rate["dataType"])
}

func TestPrinter_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON

	require.NoError(t, New(&buf, opts).PrintForest(nil))
	require.Equal(t, "[]\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	_, err = ParseFormat("reg")
	require.Error(t, err)
}
