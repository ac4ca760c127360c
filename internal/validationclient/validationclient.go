// Package validationclient submits sanitized user names to the remote name
// validation service and interprets its answers.
package validationclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/namecheck/internal/models"
	"github.com/patric-chuzhbe/namecheck/internal/namesanitizer"
)

// ErrServiceUnreachable is returned when no HTTP response could be obtained
// from the validation service.
var ErrServiceUnreachable = errors.New("validation service is unreachable")

const unreachableMessage = "Failed to reach validation service."

// ValidationFailedError is returned when the service answered with a
// non-200 status.
type ValidationFailedError struct {
	Outcome models.ValidationOutcome
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s - %s", e.Outcome.Name, e.Outcome.Message)
}

type Client struct {
	http          *resty.Client
	validationURL string
}

type initOptions struct {
	timeout    time.Duration
	httpClient *http.Client
}

type InitOption func(*initOptions)

// WithTimeout limits every validation request. Zero keeps requests unbounded.
func WithTimeout(timeout time.Duration) InitOption {
	return func(options *initOptions) {
		options.timeout = timeout
	}
}

// WithHTTPClient makes the client send requests through httpClient.
func WithHTTPClient(httpClient *http.Client) InitOption {
	return func(options *initOptions) {
		options.httpClient = httpClient
	}
}

func New(validationURL string, optionsProto ...InitOption) *Client {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	var restyClient *resty.Client
	if options.httpClient != nil {
		restyClient = resty.NewWithClient(options.httpClient)
	} else {
		restyClient = resty.New()
	}
	if options.timeout > 0 {
		restyClient.SetTimeout(options.timeout)
	}
	restyClient.SetHeader("Accept", "application/json")

	return &Client{
		http:          restyClient,
		validationURL: validationURL,
	}
}

// Validate sanitizes name and submits it to the validation service.
// A transport failure yields an error wrapping ErrServiceUnreachable and a
// non-200 answer yields *ValidationFailedError. The returned outcome is
// filled in as far as the exchange got.
func (c *Client) Validate(ctx context.Context, name string) (models.ValidationOutcome, error) {
	outcome := models.ValidationOutcome{
		Name:          name,
		SanitizedName: namesanitizer.Sanitize(name),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("name", outcome.SanitizedName).
		Get(c.validationURL)
	if err != nil {
		outcome.Message = unreachableMessage
		return outcome, fmt.Errorf("%s - %w: %v", name, ErrServiceUnreachable, err)
	}

	outcome.StatusCode = resp.StatusCode()
	outcome.Message = extractMessage(resp.Body(), outcome.StatusCode)

	if outcome.StatusCode != http.StatusOK {
		return outcome, &ValidationFailedError{Outcome: outcome}
	}

	return outcome, nil
}

func extractMessage(body []byte, statusCode int) string {
	var payload models.RemoteResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
		return *payload.Message
	}

	return fmt.Sprintf("Received status %d", statusCode)
}
