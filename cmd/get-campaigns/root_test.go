package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlmjohnson/requests"
	"github.com/rundexter/mailchimp-get-campaigns/campaigns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recorder struct {
	status int
	body   string
	last   *http.Request
	calls  int
}

func (r *recorder) transport() http.RoundTripper {
	return requests.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		r.calls++
		r.last = req
		return &http.Response{
			StatusCode: r.status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(r.body)),
			Request:    req,
		}, nil
	})
}

func execute(t *testing.T, rec *recorder, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MAILCHIMP_SERVER", "")
	t.Setenv("MAILCHIMP", "")
	cmd := newRootCmd(campaigns.WithTransport(rec.transport()))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRun_FlagsBecomeInputs(t *testing.T) {
	rec := &recorder{status: 200, body: `{"total_items":1,"campaigns":[{"id":"x1","type":"rss","status":"sent"}]}`}

	out, err := execute(t, rec, "run",
		"--server", "us4",
		"--token", "flag-token",
		"--type", "regular, rss",
		"--exclude-fields", "_links",
		"--before-create-time", "2024-05-01T00:00:00Z",
		"--count", "3",
		"--log-format", "json",
	)
	require.NoError(t, err)
	require.Equal(t, 1, rec.calls)

	assert.Equal(t, "us4.api.mailchimp.com", rec.last.URL.Host)
	assert.Equal(t, "Bearer flag-token", rec.last.Header.Get("Authorization"))
	q := rec.last.URL.Query()
	assert.Equal(t, "regular,rss", q.Get("type"))
	assert.Equal(t, "_links", q.Get("exclude_fields"))
	assert.Equal(t, "2024-05-01T00:00:00Z", q.Get("before_create_time"))
	assert.Equal(t, "3", q.Get("count"))
	assert.False(t, q.Has("fields"))

	assert.Equal(t, int64(1), gjson.Get(out, "total_items").Int())
	assert.Equal(t, `["x1"]`, gjson.Get(out, "id|@ugly").Raw)
}

func TestRun_FailureReturnsError(t *testing.T) {
	rec := &recorder{status: 401, body: `{"detail":"Invalid token"}`}

	out, err := execute(t, rec, "run", "--server", "us4", "--log-format", "json")

	assert.EqualError(t, err, `{"detail":"Invalid token"}`)
	assert.Empty(t, out)
}

func TestRun_MissingServer(t *testing.T) {
	rec := &recorder{status: 200, body: `{}`}

	_, err := execute(t, rec, "run", "--log-format", "json")

	assert.EqualError(t, err, "A [mailchimp_server] environment need for this module.")
	assert.Zero(t, rec.calls)
}

func TestRun_DefinitionFileWithFlagOverride(t *testing.T) {
	rec := &recorder{status: 200, body: `{"total_items":0,"campaigns":[]}`}
	name := filepath.Join(t.TempDir(), "step.yaml")
	require.NoError(t, os.WriteFile(name, []byte(`
inputs:
  status: [sent]
  count: 100
environment:
  mailchimp_server: us2
credentials:
  mailchimp:
    access_token: file-token
`), 0o600))

	_, err := execute(t, rec, "run", "-c", name, "--count", "5", "--log-format", "json")
	require.NoError(t, err)

	assert.Equal(t, "us2.api.mailchimp.com", rec.last.URL.Host)
	assert.Equal(t, "Bearer file-token", rec.last.Header.Get("Authorization"))
	assert.Equal(t, "sent", rec.last.URL.Query().Get("status"))
	assert.Equal(t, "5", rec.last.URL.Query().Get("count"))
}

func TestRunCmd_LogDefaultsFromEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_DEBUG", "true")

	cmd := newRunCmd()
	assert.Equal(t, "json", cmd.Flags().Lookup("log-format").DefValue)
	assert.Equal(t, "true", cmd.Flags().Lookup("debug").DefValue)

	require.NoError(t, cmd.ParseFlags([]string{"--log-format", "console"}))
	assert.Equal(t, "console", cmd.Flags().Lookup("log-format").Value.String())
}

func TestRunCmd_LogDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_DEBUG", "")

	cmd := newRunCmd()
	assert.Equal(t, "console", cmd.Flags().Lookup("log-format").DefValue)
	assert.Equal(t, "false", cmd.Flags().Lookup("debug").DefValue)
}

func TestInputsFromFlags(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--fields", "id,type", "--before-send-time", "2024", "--server", "us1"}))

	assert.Equal(t, map[string]interface{}{
		"fields":           []string{"id", "type"},
		"before_send_time": "2024",
	}, inputsFromFlags(cmd.Flags()))
}
