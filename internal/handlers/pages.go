package handlers

import (
	"html/template"

	"murerholbaek.dk/web/internal/nav"
	"murerholbaek.dk/web/internal/seo"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics
	Contact   Contact
	CSRFToken string

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Footer      Footer

	// Optional per-page view model payloads
	Home     any
	Services any
	Service  any
	Content  any
	Quote    any
}

// Contact holds the business contact details shown in the call banner,
// sidebar and footer.
type Contact struct {
	PhoneDisplay string
	PhoneLink    template.URL
	Email        string
}

// Footer is the view model of the site footer.
type Footer struct {
	Links        []nav.Link
	ServiceNames []string
	Year         int
}
