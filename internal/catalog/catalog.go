package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidService is returned when a record misses a required field.
	ErrInvalidService = errors.New("catalog: invalid service")
	// ErrDuplicateSlug is returned when two records share a slug.
	ErrDuplicateSlug = errors.New("catalog: duplicate slug")
)

// Service is the static content bundle describing one offered service.
// The SEO fields are optional; an empty value means "not set".
type Service struct {
	Slug           string   `yaml:"slug"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	HeroImage      string   `yaml:"hero_image"`
	Benefits       []string `yaml:"benefits"`
	PriceFactors   []string `yaml:"price_factors"`
	Timeline       string   `yaml:"timeline"`
	SEOTitle       string   `yaml:"seo_title"`
	SEODescription string   `yaml:"seo_description"`
	OGTitle        string   `yaml:"og_title"`
	OGDescription  string   `yaml:"og_description"`
}

// Table is a read-only mapping from slug to Service. It is built once and
// never mutated, so concurrent readers need no locking.
type Table struct {
	services map[string]Service
	order    []string
}

// New validates records and builds a Table. Record slugs are stored in
// normalised form and record order is kept for listings.
func New(records []Service) (*Table, error) {
	t := &Table{
		services: make(map[string]Service, len(records)),
		order:    make([]string, 0, len(records)),
	}
	for i, rec := range records {
		rec.Slug = NormalizeSlug(rec.Slug)
		rec.Title = strings.TrimSpace(rec.Title)
		if rec.Slug == "" {
			return nil, fmt.Errorf("%w: record %d has no slug", ErrInvalidService, i)
		}
		if rec.Title == "" {
			return nil, fmt.Errorf("%w: %s has no title", ErrInvalidService, rec.Slug)
		}
		if len(rec.Benefits) == 0 {
			return nil, fmt.Errorf("%w: %s has no benefits", ErrInvalidService, rec.Slug)
		}
		if _, exists := t.services[rec.Slug]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, rec.Slug)
		}
		t.services[rec.Slug] = cloneService(rec)
		t.order = append(t.order, rec.Slug)
	}
	return t, nil
}

// Lookup returns a copy of the service registered under slug. The match is
// exact; callers that accept user input normalise with NormalizeSlug first.
func (t *Table) Lookup(slug string) (Service, bool) {
	if t == nil {
		return Service{}, false
	}
	svc, ok := t.services[slug]
	if !ok {
		return Service{}, false
	}
	return cloneService(svc), true
}

// Has reports whether slug is present.
func (t *Table) Has(slug string) bool {
	if t == nil {
		return false
	}
	_, ok := t.services[slug]
	return ok
}

// All returns every service in catalog order.
func (t *Table) All() []Service {
	if t == nil {
		return nil
	}
	out := make([]Service, 0, len(t.order))
	for _, slug := range t.order {
		out = append(out, cloneService(t.services[slug]))
	}
	return out
}

// Len returns the number of services.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// NormalizeSlug trims whitespace and slashes and lower-cases the slug.
func NormalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	return strings.Trim(slug, "/")
}

func cloneService(src Service) Service {
	cp := src
	cp.Benefits = append([]string(nil), src.Benefits...)
	cp.PriceFactors = append([]string(nil), src.PriceFactors...)
	return cp
}
