package campaigns

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/carlmjohnson/requests"
	"go.uber.org/zap"
)

// CampaignsPath is the campaigns collection, relative to the API root.
const CampaignsPath = "campaigns"

// BaseURL returns the Marketing API root for a data center, e.g. "us6".
func BaseURL(server string) string {
	return fmt.Sprintf("https://%s.api.mailchimp.com/3.0/", server)
}

// Client issues requests against the Mailchimp Marketing API.
// A zero HTTPClient means http.DefaultClient, so no timeout beyond the transport default applies.
type Client struct {
	Server         string
	AccessToken    string
	HTTPClient     *http.Client
	Transport      http.RoundTripper
	RecordRequests bool
	// RecordDir overrides where recorded exchanges are written.
	RecordDir string
	Logger    *zap.Logger
}

func (c Client) recordDir() string {
	if c.RecordDir != "" {
		return c.RecordDir
	}
	return fmt.Sprintf("testdata/.requests/%s", c.Server)
}

// MailchimpAPIBuilder returns a new requests.Builder configured for the data center.
// When RecordRequests is set, exchanges are written under RecordDir, by default testdata/.requests/<server>.
func (c Client) MailchimpAPIBuilder() *requests.Builder {
	result := requests.URL(BaseURL(c.Server))
	if c.HTTPClient != nil {
		result = result.Client(c.HTTPClient)
	}
	if c.RecordRequests {
		result = result.Transport(requests.Record(c.Transport, c.recordDir()))
	} else if c.Transport != nil {
		result = result.Transport(c.Transport)
	}
	return result
}

// ListCampaigns performs a single GET of the campaigns collection and returns the raw body.
// A transport failure is returned as *TransportError and any status other than 200 as *RemoteError.
func (c Client) ListCampaigns(ctx context.Context, query Query) ([]byte, error) {
	var status int
	var body bytes.Buffer

	rb := c.MailchimpAPIBuilder().
		Path(CampaignsPath).
		Bearer(c.AccessToken).
		Accept("application/json").
		AddValidator(func(response *http.Response) error {
			status = response.StatusCode
			return nil
		}).
		Handle(requests.ToBytesBuffer(&body))
	for key, values := range query.Values() {
		rb = rb.Param(key, values...)
	}

	err := rb.Fetch(ctx)
	if err != nil {
		if status == 0 {
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				return nil, &TransportError{Err: urlErr}
			}
			return nil, &TransportError{Err: err}
		}
		return nil, fmt.Errorf("failed to read campaigns response %w", err)
	}

	if status != http.StatusOK {
		remoteErr := &RemoteError{StatusCode: status, Body: body.Bytes()}
		if c.Logger != nil {
			fields := []zap.Field{zap.Int("status", status)}
			if problem, ok := remoteErr.Problem(); ok {
				fields = append(fields, zap.String("title", problem.Title), zap.String("detail", problem.Detail))
			} else {
				fields = append(fields, zap.ByteString("body", remoteErr.Body))
			}
			c.Logger.Warn("Mailchimp Error", fields...)
		}
		return nil, remoteErr
	}

	return body.Bytes(), nil
}
