package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultTimeout bounds both remote calls. The service cannot cancel a call
// mid-flight, so the timeout is the only bound on request duration.
const DefaultTimeout = 30 * time.Second

// predictResponse is the raw decode target for /predict. Pointer fields let
// the contract check distinguish a missing key from a zero value.
type predictResponse struct {
	Fraudulent     *int      `json:"fraudulent" validate:"required,oneof=0 1"`
	ProbFraudulent *float64  `json:"prob_fraudulent" validate:"required,gte=0,lte=1"`
	ColumnNames    []string  `json:"column_names" validate:"required,min=1"`
	ColumnValues   []float64 `json:"column_values" validate:"required,min=1"`
}

// explainResponseSchema describes the required shape of the /explain response.
const explainResponseSchema = `{
	"type": "object",
	"required": [
		"text_contributions_words_fake",
		"text_contributions_contribution_fake",
		"text_contributions_words_real",
		"text_contributions_contribution_real",
		"non_text_contributions"
	],
	"properties": {
		"text_contributions_words_fake": {"type": "array", "items": {"type": "string"}},
		"text_contributions_contribution_fake": {"type": "array", "items": {"type": "number"}},
		"text_contributions_words_real": {"type": "array", "items": {"type": "string"}},
		"text_contributions_contribution_real": {"type": "array", "items": {"type": "number"}},
		"non_text_contributions": {"type": "array", "items": {"type": "string"}}
	}
}`

// Client talks to the remote model service. It holds no state beyond the
// endpoint and transport; the cached prediction lives in the session store.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewClient creates a client for the model service at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Predict sends the collected form fields to the predictor and returns the
// parsed verdict. No retries; a failure surfaces immediately and leaves any
// previously cached result untouched (the caller owns the cache).
func (c *Client) Predict(ctx context.Context, input JobPostingInput) (*PredictionResult, error) {
	body, err := c.get(ctx, "/predict", input.QueryValues().Encode())
	if err != nil {
		return nil, &PredictionError{Message: "predict request failed", Cause: err}
	}

	var raw predictResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &PredictionError{Message: "invalid response JSON", Cause: err}
	}
	if err := c.validate.Struct(&raw); err != nil {
		return nil, &PredictionError{Message: "response missing required fields", Cause: err}
	}
	if len(raw.ColumnNames) != len(raw.ColumnValues) {
		return nil, &PredictionError{
			Message: fmt.Sprintf("column length mismatch: %d names vs %d values",
				len(raw.ColumnNames), len(raw.ColumnValues)),
		}
	}

	return &PredictionResult{
		Fraudulent:     *raw.Fraudulent,
		ProbFraudulent: *raw.ProbFraudulent,
		ColumnNames:    raw.ColumnNames,
		ColumnValues:   raw.ColumnValues,
	}, nil
}

// Explain sends the cached prediction's feature vector to the explain
// endpoint. The arrays must be exactly the pair the predictor returned;
// anything else yields an explanation inconsistent with the displayed verdict.
func (c *Client) Explain(ctx context.Context, cached *PredictionResult) (*ExplanationResult, error) {
	names, err := json.Marshal(cached.ColumnNames)
	if err != nil {
		return nil, &ExplanationError{Message: "failed to encode column names", Cause: err}
	}
	values, err := json.Marshal(cached.ColumnValues)
	if err != nil {
		return nil, &ExplanationError{Message: "failed to encode column values", Cause: err}
	}

	q := url.Values{}
	q.Set("column_names", string(names))
	q.Set("column_values", string(values))

	body, err := c.get(ctx, "/explain", q.Encode())
	if err != nil {
		return nil, &ExplanationError{Message: "explain request failed", Cause: err}
	}

	result, schemaErr := gojsonschema.Validate(
		gojsonschema.NewStringLoader(explainResponseSchema),
		gojsonschema.NewBytesLoader(body),
	)
	if schemaErr != nil {
		return nil, &ExplanationError{Message: "invalid response JSON", Cause: schemaErr}
	}
	if !result.Valid() {
		desc := "response missing required fields"
		if errs := result.Errors(); len(errs) > 0 {
			desc = errs[0].String()
		}
		return nil, &ExplanationError{Message: desc}
	}

	var exp ExplanationResult
	if err := json.Unmarshal(body, &exp); err != nil {
		return nil, &ExplanationError{Message: "failed to decode response", Cause: err}
	}
	if len(exp.WordsFake) != len(exp.ContributionsFake) {
		return nil, &ExplanationError{
			Message: fmt.Sprintf("fake arrays length mismatch: %d words vs %d contributions",
				len(exp.WordsFake), len(exp.ContributionsFake)),
		}
	}
	if len(exp.WordsReal) != len(exp.ContributionsReal) {
		return nil, &ExplanationError{
			Message: fmt.Sprintf("real arrays length mismatch: %d words vs %d contributions",
				len(exp.WordsReal), len(exp.ContributionsReal)),
		}
	}

	return &exp, nil
}

// get issues one GET with the configured timeout and returns the body of a
// 2xx response.
func (c *Client) get(ctx context.Context, path, rawQuery string) ([]byte, error) {
	endpoint := c.baseURL + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	return body, nil
}
