package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshvaikri-code/ison/internal/testutil"
)

// writeFixture writes content to name under a fresh temp dir and returns the
// full path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvertISONToISONL(t *testing.T) {
	input := writeFixture(t, "in.ison", testutil.SampleText())
	output := filepath.Join(t.TempDir(), "out.isonl")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Converted")
	assert.Contains(t, buf.String(), "2 block(s), 4 row(s)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "table.users|id:int name active score team:ref|1 Alice true 9.5 :teams:7")
	assert.Contains(t, string(data), "table.teams|id:int name|7 Core")
	// Summary rows do not survive the ISONL encoding
	assert.NotContains(t, string(data), "totals")
}

func TestConvertISONLToISON(t *testing.T) {
	input := writeFixture(t, "in.isonl", "table.users|id:int name|1 Alice\ntable.users|id:int name|2 \"Bob Smith\"")
	output := filepath.Join(t.TempDir(), "out.ison")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output, "--align=false"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "table.users\nid:int name\n1 Alice\n2 \"Bob Smith\"\n", string(data))
}

func TestConvertToStdout_Golden(t *testing.T) {
	input := writeFixture(t, "in.ison", testutil.SampleText())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, "-", "--to", "isonl"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Stdout carries only the converted document, never a summary
	assert.NotContains(t, buf.String(), "✓")
	testutil.AssertGolden(t, "convert_isonl", buf.Bytes())
}

func TestConvertToJSON(t *testing.T) {
	input := writeFixture(t, "in.ison", testutil.SampleText())
	output := filepath.Join(t.TempDir(), "out.json")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "users")
	require.Contains(t, decoded, "teams")
	require.Len(t, decoded["users"], 2)
	assert.Equal(t, "Alice", decoded["users"][0]["name"])
	assert.Equal(t, map[string]interface{}{"$ref": "7", "$type": "teams"}, decoded["users"][0]["team"])
}

func TestConvertJSONToISON(t *testing.T) {
	input := writeFixture(t, "in.json", `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`)
	output := filepath.Join(t.TempDir(), "out.ison")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output, "--align=false"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "table.users\nid name\n1 Alice\n2 Bob\n", string(data))
}

func TestConvertJSONKindFlag(t *testing.T) {
	input := writeFixture(t, "in.json", `{"org":[{"person":"alice"}]}`)
	output := filepath.Join(t.TempDir(), "out.ison")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output, "--kind", "graph"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph.org")
}

func TestConvertFromFlagOverridesExtension(t *testing.T) {
	input := writeFixture(t, "in.txt", "table.users\nid:int name\n1 Alice")
	output := filepath.Join(t.TempDir(), "out.isonl")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output, "--from", "ison"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "table.users|id:int name|1 Alice\n", string(data))
}

func TestConvertUnknownExtension(t *testing.T) {
	input := writeFixture(t, "in.txt", "table.users\nid:int name\n1 Alice")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, "out.isonl"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, buf.String(), "cannot detect data format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertMissingInput(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nosuch.ison"), "out.isonl"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E002")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertParseError(t *testing.T) {
	input := writeFixture(t, "in.ison", "not-a-header\nid name\n1 Alice")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, "out.isonl"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, buf.String(), "Invalid block header")
	// Malformed documents are data failures, not command errors
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConvertGzip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ison.gz")
	output := filepath.Join(dir, "out.isonl.gz")

	f, err := os.Create(input)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testutil.SampleText()))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output})

	err = cmd.Execute()
	require.NoError(t, err)

	f, err = os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gzr.Close()

	buf.Reset()
	_, err = buf.ReadFrom(gzr)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "table.users|")
}

func TestConvertParallel(t *testing.T) {
	// Interleaved blocks exercise the per-block accumulation of the
	// concurrent decoder.
	input := writeFixture(t, "in.isonl",
		"table.a|id:int|1\ntable.b|id:int|10\ntable.a|id:int|2\ntable.b|id:int|20")
	output := filepath.Join(t.TempDir(), "out.ison")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output, "--parallel", "4", "--align=false"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "table.a\nid:int\n1\n2\n\ntable.b\nid:int\n10\n20\n", string(data))
}

func TestConvertJSONEnvelope(t *testing.T) {
	input := writeFixture(t, "in.ison", testutil.SampleText())
	output := filepath.Join(t.TempDir(), "out.isonl")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{input, output})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["blocks"])
	assert.Equal(t, float64(4), data["rows"])
	assert.Equal(t, "isonl", data["to"])
}

func TestConvertVerbose(t *testing.T) {
	input := writeFixture(t, "in.ison", testutil.SampleText())
	output := filepath.Join(t.TempDir(), "out.isonl")

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf) // Verbose output goes to stderr
	cmd.SetArgs([]string{input, output})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, errBuf.String(), "Read")
	assert.Contains(t, errBuf.String(), "Decoded 2 block(s)")
}
