package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/scamjob-detector/internal/detector"
	"github.com/jonathan/scamjob-detector/internal/preview"
)

// Word cloud font sizing bounds, in pixels. Weight drives size; sign of the
// contribution is not encoded.
const (
	minTermSize = 14
	maxTermSize = 44
)

// countryOption pairs a country code with its display label.
type countryOption struct {
	Code  string
	Label string
}

// formState echoes the submitted selections back into the form.
type formState struct {
	Description    string
	Location       string
	Industry       string
	Function       string
	EmploymentType string
	Logo           string // "", "yes" or "no"
}

type resultView struct {
	Fraudulent  bool
	ProbPercent string
	Message     string
	CSSClass    string
}

type cloudTermView struct {
	Word string
	Size int
}

type explanationView struct {
	Terms   []cloudTermView
	NonText []string
}

type indexView struct {
	Countries       []countryOption
	Industries      []string
	Functions       []string
	EmploymentTypes []string
	Form            formState
	ErrorMessage    string
	Result          *resultView
	HasPrediction   bool
	Explanation     *explanationView
}

type previewView struct {
	URL          string
	ErrorMessage string
	Card         *preview.Preview
}

// baseIndexView builds the form options and restores the cached verdict so a
// page reload keeps showing the last successful prediction.
func (s *Server) baseIndexView(r *http.Request) *indexView {
	view := &indexView{
		Industries:      s.catalog.Industries,
		Functions:       s.catalog.Functions,
		EmploymentTypes: s.catalog.EmploymentTypes,
	}
	for _, code := range s.catalog.SortedCountryCodes() {
		view.Countries = append(view.Countries, countryOption{
			Code:  code,
			Label: s.catalog.CountryLabel(code),
		})
	}

	if cached, err := s.sessions.Get(r.Context(), sessionID(r)); err == nil {
		view.Result = resultViewFrom(cached)
		view.HasPrediction = true
	}

	return view
}

func formStateFrom(r *http.Request) formState {
	return formState{
		Description:    r.FormValue("description"),
		Location:       r.FormValue("location"),
		Industry:       r.FormValue("industry"),
		Function:       r.FormValue("function"),
		EmploymentType: r.FormValue("employment_type"),
		Logo:           r.FormValue("has_company_logo"),
	}
}

// inputFrom coerces the submitted form into a JobPostingInput. Empty
// selections stay absent; the logo selector maps yes/no to a flag.
func inputFrom(r *http.Request) detector.JobPostingInput {
	input := detector.JobPostingInput{
		Description:    strings.TrimSpace(r.FormValue("description")),
		Location:       r.FormValue("location"),
		Industry:       r.FormValue("industry"),
		Function:       r.FormValue("function"),
		EmploymentType: r.FormValue("employment_type"),
	}

	switch r.FormValue("has_company_logo") {
	case "yes", "1":
		t := true
		input.HasCompanyLogo = &t
	case "no", "0":
		f := false
		input.HasCompanyLogo = &f
	}

	return input
}

func resultViewFrom(res *detector.PredictionResult) *resultView {
	percent := fmt.Sprintf("%.0f%%", res.ProbFraudulent*100)
	if res.Fraudulent == 1 {
		return &resultView{
			Fraudulent:  true,
			ProbPercent: percent,
			Message:     "This job offer is most likely fake.",
			CSSClass:    "fraudulent",
		}
	}
	return &resultView{
		Fraudulent:  false,
		ProbPercent: percent,
		Message: fmt.Sprintf("This job offer is most likely a correct job offer. "+
			"However with a probability of %s, the job offer is still fake.", percent),
		CSSClass: "genuine",
	}
}

// explanationViewFrom scales the verdict-matching cloud terms into font sizes.
func explanationViewFrom(cached *detector.PredictionResult, exp *detector.ExplanationResult) *explanationView {
	terms := detector.WordCloud(cached, exp)
	view := &explanationView{NonText: exp.NonText}
	if len(terms) == 0 {
		return view
	}

	// Terms arrive sorted by weight descending.
	maxWeight := terms[0].Weight
	minWeight := terms[len(terms)-1].Weight
	span := maxWeight - minWeight

	for _, term := range terms {
		size := (minTermSize + maxTermSize) / 2
		if span > 0 {
			size = minTermSize + int((term.Weight-minWeight)/span*float64(maxTermSize-minTermSize))
		}
		view.Terms = append(view.Terms, cloudTermView{Word: term.Word, Size: size})
	}
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", s.baseIndexView(r))
}

// handlePredict calls the predictor and caches the result in the caller's
// session. On failure the previous cached prediction stays untouched, so the
// explain action keeps working for the last successful verdict.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	view := s.baseIndexView(r)
	view.Form = formStateFrom(r)

	result, err := s.detector.Predict(r.Context(), inputFrom(r))
	if err != nil {
		view.ErrorMessage = userMessage(err)
		s.render(w, HTTPStatus(err), "index.html", view)
		return
	}

	if err := s.sessions.Put(r.Context(), sessionID(r), result); err != nil {
		view.ErrorMessage = userMessage(err)
		s.render(w, http.StatusInternalServerError, "index.html", view)
		return
	}

	view.Result = resultViewFrom(result)
	view.HasPrediction = true
	view.Explanation = nil
	s.render(w, http.StatusOK, "index.html", view)
}

// handleExplain reads the cached prediction and asks the explain endpoint for
// attributions. Without a cached prediction no network call is made.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	view := s.baseIndexView(r)

	cached, err := s.sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		view.ErrorMessage = userMessage(err)
		s.render(w, HTTPStatus(err), "index.html", view)
		return
	}

	exp, err := s.detector.Explain(r.Context(), cached)
	if err != nil {
		view.ErrorMessage = userMessage(err)
		s.render(w, HTTPStatus(err), "index.html", view)
		return
	}

	view.Result = resultViewFrom(cached)
	view.HasPrediction = true
	view.Explanation = explanationViewFrom(cached, exp)
	s.render(w, http.StatusOK, "index.html", view)
}

func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "preview.html", &previewView{})
}

// handlePreview fetches the submitted URL and renders the metadata card.
// Failures render a warning plus a plain fallback link.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.FormValue("url"))
	if rawURL == "" {
		s.render(w, http.StatusBadRequest, "preview.html", &previewView{
			ErrorMessage: "Enter a URL to preview.",
		})
		return
	}
	if parsed, err := url.Parse(rawURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		s.render(w, http.StatusBadRequest, "preview.html", &previewView{
			URL:          rawURL,
			ErrorMessage: "That does not look like a valid URL.",
		})
		return
	}

	card, err := s.previews.Fetch(r.Context(), rawURL)
	if err != nil {
		s.render(w, HTTPStatus(err), "preview.html", &previewView{
			URL:          rawURL,
			ErrorMessage: userMessage(err),
		})
		return
	}

	s.render(w, http.StatusOK, "preview.html", &previewView{URL: rawURL, Card: card})
}
