// Package catalog loads the static option lists that drive the job posting form.
// The four files are read once at startup; a malformed or missing file is fatal
// because the form cannot render without its selectors.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// File names expected under the catalog directory.
const (
	CountriesFile      = "countries.json"
	IndustryFile       = "industry.json"
	FunctionFile       = "function.json"
	EmploymentTypeFile = "employment_type.json"
)

// Shape schemas checked before decoding. Each collection must be non-empty
// and hold strings only; countries must be an object keyed by country code.
const (
	mappingSchema = `{
		"type": "object",
		"minProperties": 1,
		"additionalProperties": {"type": "string"}
	}`
	listSchema = `{
		"type": "array",
		"minItems": 1,
		"items": {"type": "string"}
	}`
)

// Catalog holds the four option collections. Read-only after Load.
type Catalog struct {
	Countries       map[string]string
	Industries      []string
	Functions       []string
	EmploymentTypes []string
}

// LoadError represents a failure to load or validate a catalog file.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog load error for %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog load error for %s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads the four catalog files from dir and returns an immutable Catalog.
// The shape of each file is validated against a JSON Schema before decoding so
// a list where a mapping is expected (or vice versa) fails immediately.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{}

	if err := loadFile(dir, CountriesFile, mappingSchema, &c.Countries); err != nil {
		return nil, err
	}
	if err := loadFile(dir, IndustryFile, listSchema, &c.Industries); err != nil {
		return nil, err
	}
	if err := loadFile(dir, FunctionFile, listSchema, &c.Functions); err != nil {
		return nil, err
	}
	if err := loadFile(dir, EmploymentTypeFile, listSchema, &c.EmploymentTypes); err != nil {
		return nil, err
	}

	return c, nil
}

// loadFile reads one catalog file, checks its shape, and decodes it into out.
func loadFile(dir, name, schema string, out any) error {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{
			File:    name,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &LoadError{
			File:    name,
			Message: "not valid JSON",
			Cause:   err,
		}
	}

	if !result.Valid() {
		desc := "unexpected shape"
		if errs := result.Errors(); len(errs) > 0 {
			desc = errs[0].Description()
		}
		return &LoadError{
			File:    name,
			Message: desc,
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &LoadError{
			File:    name,
			Message: "failed to decode",
			Cause:   err,
		}
	}

	return nil
}

// SortedCountryCodes returns all country codes in ascending order, the order
// the form presents them in.
func (c *Catalog) SortedCountryCodes() []string {
	codes := make([]string, 0, len(c.Countries))
	for code := range c.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CountryLabel returns the display label for a country code, e.g.
// "US — United States of America". Unknown codes yield the code alone.
func (c *Catalog) CountryLabel(code string) string {
	name, ok := c.Countries[code]
	if !ok {
		return code
	}
	return fmt.Sprintf("%s — %s", code, name)
}
