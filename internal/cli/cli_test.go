// Package cli — cli_test.go runs the cobra commands end to end against
// an httptest server standing in for the lookup service.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/nik-checker/internal/config"
	"github.com/shinji-kodama/nik-checker/internal/model"
)

// fakeAPI answers every lookup with body and counts requests.
func fakeAPI(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

// writeConfig writes a JSONC config pointing at endpoint with the probe
// disabled, and isolates the environment from the developer's settings.
func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(config.EnvProbeURL, "")

	path := filepath.Join(dir, "config.jsonc")
	content := `{
  // test server
  "endpoint": "` + endpoint + `",
  "skipProbe": true,
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with args and stdin, returning
// captured stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLookupCommand_Success(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{"nama":"A"}`)
	cfg := writeConfig(t, srv.URL+"/api/search/ceknik")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "lookup", "1234567890123456")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, stdout, "Result for NIK 1234567890123456:")
	assert.Contains(t, stdout, `"nama": "A"`)
}

func TestLookupCommand_InvalidFormat(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{}`)
	cfg := writeConfig(t, srv.URL)

	_, _, err := executeCommand(t, "", "--config", cfg, "lookup", "123")
	require.Error(t, err)
	assert.Equal(t, model.ExitInvalidFormat, model.CodeOf(err))
	assert.Equal(t, int32(0), calls.Load())
}

func TestLookupCommand_RequestFailed(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusBadGateway, `bad gateway`)
	cfg := writeConfig(t, srv.URL)

	_, _, err := executeCommand(t, "", "--config", cfg, "lookup", "1234567890123456")
	require.Error(t, err)
	assert.Equal(t, model.ExitRequestFailed, model.CodeOf(err))
	assert.Contains(t, err.Error(), "502")
}

func TestLookupCommand_JSON(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"nama":"A","kota":"Bandung"}`)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := executeCommand(t, "", "--config", cfg, "--json", "lookup", "1234567890123456")
	require.NoError(t, err)

	var got struct {
		NIK     string          `json:"nik"`
		Result  json.RawMessage `json:"result"`
		History []string        `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "1234567890123456", got.NIK)
	assert.JSONEq(t, `{"nama":"A","kota":"Bandung"}`, string(got.Result))
	assert.Equal(t, []string{"1234567890123456"}, got.History)
}

func TestLookupCommand_SaveYAML(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"nama":"A","umur":30}`)
	cfg := writeConfig(t, srv.URL)
	out := filepath.Join(t.TempDir(), "result.yaml")

	_, _, err := executeCommand(t, "", "--config", cfg, "lookup", "1234567890123456",
		"--save", out, "--format", "yaml")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "nama: A\numur: 30\n", string(data))
}

// TestLookupCommand_BadFormatFlag rejects the flag before any request.
func TestLookupCommand_BadFormatFlag(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{}`)
	cfg := writeConfig(t, srv.URL)

	_, _, err := executeCommand(t, "", "--config", cfg, "lookup", "1234567890123456", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestLookupCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint": "nope"}`), 0o644))

	_, _, err := executeCommand(t, "", "--config", path, "lookup", "1234567890123456")
	require.Error(t, err)
	assert.Equal(t, model.ExitConfigInvalid, model.CodeOf(err))
}

// TestShell_Session drives a whole interactive session: a rejected NIK,
// a lookup, history, a failed save, a real save, and clear.
func TestShell_Session(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{"nama":"A"}`)
	cfg := writeConfig(t, srv.URL)
	outFile := filepath.Join(t.TempDir(), "hasil saya.txt")

	script := strings.Join([]string{
		"123",
		"1234567890123456",
		"cek 1234567890123456",
		"history",
		"save",
		`save "` + outFile + `"`,
		"clear",
		"history",
		"exit",
		"check 9999999999999999", // never reached
	}, "\n") + "\n"

	stdout, stderr, err := executeCommand(t, script, "--config", cfg, "shell")
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load(), "the invalid NIK must not be sent")
	assert.Contains(t, stdout, "|N|I|K|")
	assert.Contains(t, stdout, "Error: NIK must be exactly 16 decimal digits")
	assert.Contains(t, stdout, `"nama": "A"`)
	assert.Contains(t, stdout, "  1. 1234567890123456")
	assert.NotContains(t, stdout, "  2. ", "duplicate lookups are not added to history")
	assert.Contains(t, stdout, "Error: enter a file name")
	assert.Contains(t, stdout, "Info: saved to "+outFile)
	assert.Contains(t, stdout, "Cleared.")
	assert.Contains(t, stderr, "NIK must be exactly 16 decimal digits")

	saved, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "Loading...\nResult for NIK 1234567890123456:\n{\n  \"nama\": \"A\"\n}\nError: enter a file name to save the result to\n", string(saved))
}

func TestShell_PickAndCheckCurrent(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{}`)
	cfg := writeConfig(t, srv.URL)

	script := "1111111111111111\n2222222222222222\npick 1\ncheck\npick 7\nhistory\n"
	stdout, stderr, err := executeCommand(t, script, "--config", cfg, "shell")
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, stdout, "NIK set to 1111111111111111")
	assert.Contains(t, stderr, "no history entry #7")
	assert.Contains(t, stdout, "  1. 1111111111111111\n  2. 2222222222222222\n")
}

func TestShell_UnknownAndMalformedCommands(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{}`)
	cfg := writeConfig(t, srv.URL)

	script := "frobnicate\nsave 'unterminated\nsave a.txt xml\nhelp\n"
	stdout, stderr, err := executeCommand(t, script, "--config", cfg, "shell")
	require.NoError(t, err, "errors never end the shell")

	assert.Contains(t, stderr, `unknown command "frobnicate"`)
	assert.Contains(t, stderr, "cannot parse command")
	assert.Contains(t, stderr, "invalid save format")
	assert.Contains(t, stdout, "Commands:")
}

func TestShell_SavePathFlag(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"a":1}`)
	cfg := writeConfig(t, srv.URL)
	dir := t.TempDir()
	defaultFile := filepath.Join(dir, "default.txt")
	jsonFile := filepath.Join(dir, "r.json")

	script := "1234567890123456\nsave\nsave " + jsonFile + " json\n"
	_, _, err := executeCommand(t, script, "--config", cfg, "shell", "--save-path", defaultFile)
	require.NoError(t, err)

	data, err := os.ReadFile(defaultFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Result for NIK 1234567890123456:")

	data, err = os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestPrintError(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })

	err := model.WrapCLIError(model.ExitNoConnection, "no internet connection", errors.New("dial tcp: timeout"))

	var buf bytes.Buffer
	jsonOutput = false
	printError(&buf, err)
	assert.Equal(t, "Error: no internet connection: dial tcp: timeout\n", buf.String())

	buf.Reset()
	jsonOutput = true
	printError(&buf, err)
	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "NoConnection", got["error"]["kind"])
	assert.Equal(t, "no internet connection", got["error"]["message"])
	assert.Equal(t, "dial tcp: timeout", got["error"]["detail"])

	buf.Reset()
	jsonOutput = false
	printError(&buf, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("123"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("12a"))
	assert.False(t, isDigits("１２"))
}
