package handlers

import (
	"murerholbaek.dk/web/internal/catalog"
	"murerholbaek.dk/web/internal/format"
	"murerholbaek.dk/web/internal/seo"
)

// NotFoundMessage is the fallback text for an unknown service slug.
const NotFoundMessage = "Service ikke fundet"

// Fixed visual markers attached to list items.
const (
	MarkerBenefit     = "check-circle"
	MarkerPriceFactor = "euro"
	MarkerTimeline    = "clock"
)

// State is the outcome of resolving a slug.
type State int

const (
	StateNotFound State = iota
	StateResolved
)

func (s State) String() string {
	if s == StateResolved {
		return "resolved"
	}
	return "not_found"
}

// Lookuper is the read side of the service catalog.
type Lookuper interface {
	Lookup(slug string) (catalog.Service, bool)
}

// ListItem is one enumerated line with its marker icon.
type ListItem struct {
	Text   string
	Marker string
}

// Hero is the banner at the top of a service page.
type Hero struct {
	Title       string
	Description string
	Image       string
}

// ServiceView is the render tree of a service detail page.
type ServiceView struct {
	Slug            string
	Hero            Hero
	CallHeadline    string
	QuoteTitle      string
	Benefits        []ListItem
	PriceFactors    []ListItem
	Timeline        ListItem
	NotFoundMessage string
}

// Resolution carries the view and, when resolved, the page metadata the
// shell should apply. Meta is nil for StateNotFound.
type Resolution struct {
	State State
	View  ServiceView
	Meta  *seo.Meta
}

// Resolver turns slugs into service views.
type Resolver struct {
	table Lookuper
	site  seo.Site
}

// NewResolver builds a Resolver over table.
func NewResolver(table Lookuper, site seo.Site) *Resolver {
	return &Resolver{table: table, site: site}
}

// Resolve looks up slug and projects the record into a view. It has no side
// effects; the caller applies Meta to the page.
func (r *Resolver) Resolve(slug string) Resolution {
	if r == nil || r.table == nil {
		return notFound()
	}
	svc, ok := r.table.Lookup(slug)
	if !ok {
		return notFound()
	}

	meta := seo.ForService(r.site, svc)
	lower := format.Lower(svc.Title)
	view := ServiceView{
		Slug: svc.Slug,
		Hero: Hero{
			Title:       svc.Title,
			Description: svc.Description,
			Image:       svc.HeroImage,
		},
		CallHeadline: "Få et gratis tilbud på din " + lower,
		QuoteTitle:   "Få tilbud på " + lower,
		Benefits:     listItems(svc.Benefits, MarkerBenefit),
		PriceFactors: listItems(svc.PriceFactors, MarkerPriceFactor),
		Timeline:     ListItem{Text: svc.Timeline, Marker: MarkerTimeline},
	}
	return Resolution{State: StateResolved, View: view, Meta: &meta}
}

func notFound() Resolution {
	return Resolution{
		State: StateNotFound,
		View:  ServiceView{NotFoundMessage: NotFoundMessage},
	}
}

func listItems(texts []string, marker string) []ListItem {
	items := make([]ListItem, 0, len(texts))
	for _, t := range texts {
		items = append(items, ListItem{Text: t, Marker: marker})
	}
	return items
}
