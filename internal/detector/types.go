// Package detector provides the HTTP client for the remote scam job model
// service: one call classifies a posting, a follow-up call explains the
// verdict using the feature vector the first call returned.
package detector

import (
	"net/url"
	"strconv"
)

// JobPostingInput holds the form fields sent to the predictor. Every field is
// optional; an empty string (or nil logo flag) means "unspecified" and the
// field is omitted from the request so the model sees no signal for it.
type JobPostingInput struct {
	Description    string
	Location       string // country code, e.g. "US"
	Industry       string
	Function       string
	EmploymentType string
	HasCompanyLogo *bool
}

// QueryValues serializes the input as predictor query parameters. Absent
// fields are omitted entirely, never sent as empty or null. The logo flag is
// coerced to "1"/"0".
func (in JobPostingInput) QueryValues() url.Values {
	q := url.Values{}
	if in.Location != "" {
		q.Set("location", in.Location)
	}
	if in.Industry != "" {
		q.Set("industry", in.Industry)
	}
	if in.Function != "" {
		q.Set("function_str", in.Function)
	}
	if in.EmploymentType != "" {
		q.Set("employment_type", in.EmploymentType)
	}
	if in.HasCompanyLogo != nil {
		flag := 0
		if *in.HasCompanyLogo {
			flag = 1
		}
		q.Set("has_company_logo", strconv.Itoa(flag))
	}
	if in.Description != "" {
		q.Set("description", in.Description)
	}
	return q
}

// PredictionResult is the accepted predictor response. ColumnNames and
// ColumnValues describe the feature vector as the classifier saw it and are
// always the same length; they are the linking key for the explain call.
type PredictionResult struct {
	Fraudulent     int       `json:"fraudulent"`
	ProbFraudulent float64   `json:"prob_fraudulent"`
	ColumnNames    []string  `json:"column_names"`
	ColumnValues   []float64 `json:"column_values"`
}

// ExplanationResult holds the attribution arrays returned by the explain
// endpoint. The words/contributions pairs are index-aligned; NonText is a
// list of precomputed human-readable lines rendered as-is.
type ExplanationResult struct {
	WordsFake         []string  `json:"text_contributions_words_fake"`
	ContributionsFake []float64 `json:"text_contributions_contribution_fake"`
	WordsReal         []string  `json:"text_contributions_words_real"`
	ContributionsReal []float64 `json:"text_contributions_contribution_real"`
	NonText           []string  `json:"non_text_contributions"`
}
