// Package campaigns implements a workflow step that lists Mailchimp campaigns
// and projects the response to a fixed set of per-campaign fields.
package campaigns

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// StepContext holds everything the host supplies to one invocation.
// It is not modified by the step.
type StepContext struct {
	Inputs      map[string]interface{}
	Environment Environment
	Credentials Credentials
}

// Reporter receives the result of an invocation. Exactly one of Complete or Fail is called.
type Reporter interface {
	Complete(output Output)
	Fail(err error)
}

// ReporterFuncs adapts a pair of functions to Reporter.
type ReporterFuncs struct {
	OnComplete func(output Output)
	OnFail     func(err error)
}

func (r ReporterFuncs) Complete(output Output) {
	if r.OnComplete != nil {
		r.OnComplete(output)
	}
}

func (r ReporterFuncs) Fail(err error) {
	if r.OnFail != nil {
		r.OnFail(err)
	}
}

// Step lists Mailchimp campaigns. A Step carries no per-invocation state and
// may be shared by concurrent invocations.
type Step struct {
	logger         *zap.Logger
	httpClient     *http.Client
	transport      http.RoundTripper
	recordRequests bool
	recordDir      string
}

// Option configures a Step.
type Option func(*Step)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Step) {
		s.logger = logger
	}
}

// WithHTTPClient sets the client used for the outbound request.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Step) {
		s.httpClient = client
	}
}

// WithTransport sets the round tripper used for the outbound request.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Step) {
		s.transport = rt
	}
}

// WithRecordRequests records every exchange under testdata/.requests.
func WithRecordRequests(record bool) Option {
	return func(s *Step) {
		s.recordRequests = record
	}
}

// WithRecordDir sets where recorded exchanges are written.
func WithRecordDir(dir string) Option {
	return func(s *Step) {
		s.recordDir = dir
	}
}

// NewStep returns a Step configured by opts.
func NewStep(opts ...Option) *Step {
	s := &Step{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Run validates the inputs, requests the campaigns and projects the response.
// Validation failures return before any request is made.
func (s *Step) Run(ctx context.Context, sc StepContext) (Output, error) {
	var result Output

	server, err := requireEnv(sc.Environment, ServerEnvKey)
	if err != nil {
		return result, err
	}

	inputs, err := ParseInputs(sc.Inputs)
	if err != nil {
		return result, err
	}

	query, err := BuildQuery(inputs)
	if err != nil {
		return result, err
	}

	client := Client{
		Server:         server,
		AccessToken:    accessToken(sc.Credentials),
		HTTPClient:     s.httpClient,
		Transport:      s.transport,
		RecordRequests: s.recordRequests,
		RecordDir:      s.recordDir,
		Logger:         s.logger,
	}
	s.logger.Debug("listing campaigns",
		zap.String("server", server),
		zap.String("query", query.Encode()))

	body, err := client.ListCampaigns(ctx, query)
	if err != nil {
		return result, err
	}

	if !gjson.ValidBytes(body) {
		s.logger.Warn("campaigns response is not json", zap.ByteString("body", body))
	}
	result = Project(body)

	s.logger.Info("listed campaigns",
		zap.String("server", server),
		zap.Int("returned", len(result.ID)))
	return result, nil
}

// Invoke runs the step and reports the outcome to r.
func (s *Step) Invoke(ctx context.Context, sc StepContext, r Reporter) {
	output, err := s.Run(ctx, sc)
	if err != nil {
		r.Fail(err)
		return
	}
	r.Complete(output)
}
