package handlers

import (
	"html/template"

	"murerholbaek.dk/web/internal/catalog"
	"murerholbaek.dk/web/internal/quote"
)

// ServiceOption is one entry of the quote form's service select.
type ServiceOption struct {
	Slug     string
	Title    string
	Selected bool
}

// QuoteForm is the view model of the quote request form. It is rendered both
// inside full pages and as an htmx fragment, so it carries Lang and the CSRF
// token itself.
type QuoteForm struct {
	Lang      string
	CSRFToken string
	Title     string
	Action    string
	Values    quote.Request
	Errors    quote.FieldErrors
	Services  []ServiceOption
	// Failed is set when the request was valid but could not be delivered.
	Failed bool
}

// BuildQuoteForm prepares an empty form preselecting service (may be empty).
func BuildQuoteForm(title, service string, services []catalog.Service) QuoteForm {
	form := QuoteForm{
		Title:  title,
		Action: "/tilbud",
		Values: quote.Request{Service: service},
	}
	form.Services = serviceOptions(services, service)
	return form
}

// WithValues returns a copy of f holding submitted values and their errors.
func (f QuoteForm) WithValues(req quote.Request, errs quote.FieldErrors) QuoteForm {
	f.Values = req
	f.Errors = errs
	f.Services = append([]ServiceOption(nil), f.Services...)
	for i := range f.Services {
		f.Services[i].Selected = f.Services[i].Slug == req.Service
	}
	return f
}

// HasErrors reports whether any field failed validation.
func (f QuoteForm) HasErrors() bool { return len(f.Errors) > 0 }

func serviceOptions(services []catalog.Service, selected string) []ServiceOption {
	opts := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		opts = append(opts, ServiceOption{Slug: s.Slug, Title: s.Title, Selected: s.Slug == selected})
	}
	return opts
}

// ServiceDetailPage is the payload of /services/{slug}.
type ServiceDetailPage struct {
	View  ServiceView
	Rich  template.HTML
	Quote QuoteForm
}

// QuoteThanks is the payload of the thank-you page shown after a submission.
type QuoteThanks struct {
	Reference    string
	ServiceTitle string
	ReceivedAt   string
}
