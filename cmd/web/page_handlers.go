package main

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/cms"
	handlersPkg "murerholbaek.dk/web/internal/handlers"
	mw "murerholbaek.dk/web/internal/middleware"
	"murerholbaek.dk/web/internal/nav"
	"murerholbaek.dk/web/internal/observability"
	"murerholbaek.dk/web/internal/seo"
)

// newPageData fills the layout fields shared by every page.
func newPageData(r *http.Request, meta seo.Meta) handlersPkg.PageData {
	return handlersPkg.PageData{
		Title:       meta.Title,
		Lang:        defaultLang,
		SEO:         meta,
		Analytics:   analytics,
		Contact:     contact,
		CSRFToken:   mw.CSRFToken(r),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, serviceLabel),
		Footer: handlersPkg.Footer{
			Links:        nav.FooterLinks(serviceLabel),
			ServiceNames: nav.FooterServiceNames,
			Year:         time.Now().Year(),
		},
	}
}

// serviceLabel resolves breadcrumb and footer labels from the catalog.
func serviceLabel(slug string) (string, bool) {
	svc, ok := serviceTable.Lookup(slug)
	if !ok {
		return "", false
	}
	return svc.Title, true
}

// newQuoteForm builds the quote form for the current request.
func newQuoteForm(r *http.Request, title, service string) handlersPkg.QuoteForm {
	form := handlersPkg.BuildQuoteForm(title, service, serviceTable.All())
	form.Lang = defaultLang
	form.CSRFToken = mw.CSRFToken(r)
	return form
}

// HomeHandler renders the landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := defaultLang
	title := i18nOrDefault(lang, "home.title", "Murermester i Holbæk")
	desc := i18nOrDefault(lang, "home.description", "")

	meta := seo.ForPage(site, "/", title, desc)
	meta.JSONLD = []template.JS{template.JS(seo.JSON(seo.Business(site, contact.PhoneDisplay, contact.Email)))}

	vm := newPageData(r, meta)
	vm.Home = handlersPkg.BuildHomeData(serviceTable.All())
	vm.Quote = newQuoteForm(r, i18nOrDefault(lang, "home.cta", "Få et gratis tilbud"), "")
	renderPage(w, r, "home", vm)
}

// ServicesIndexHandler renders /services.
func ServicesIndexHandler(w http.ResponseWriter, r *http.Request) {
	lang := defaultLang
	title := i18nOrDefault(lang, "services.title", "Vores services")
	desc := i18nOrDefault(lang, "services.description", "")

	meta := seo.ForPage(site, "/services", title, desc)
	vm := newPageData(r, meta)
	vm.Services = handlersPkg.BuildServicesIndex(serviceTable.All())
	renderPage(w, r, "services", vm)
}

// ContentPageHandler serves a markdown page from content/pages.
func ContentPageHandler(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := contentStore.Get(r.Context(), "pages", slug)
		if err != nil {
			if errors.Is(err, cms.ErrNotFound) {
				NotFoundHandler(w, r)
				return
			}
			observability.FromContext(r.Context()).Error("load content page", zap.String("slug", slug), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		desc := firstNonBlank(page.SEO.Description, page.Summary)
		meta := seo.ForPage(site, r.URL.Path, page.Title, desc)
		// an SEO title from front matter is used as-is, brand included
		if page.SEO.Title != "" {
			meta.Title = page.SEO.Title
			meta.OG.Title = page.SEO.Title
		}
		if page.SEO.OGImage != "" {
			meta.OG.Image = site.AbsoluteURL(page.SEO.OGImage)
			meta.Twitter.Image = meta.OG.Image
		}

		vm := newPageData(r, meta)
		vm.Content = page
		if slug == "kontakt" {
			vm.Quote = newQuoteForm(r, i18nOrDefault(defaultLang, "home.cta", "Få et gratis tilbud"), "")
		}
		renderPage(w, r, "content", vm)
	}
}

// NotFoundHandler renders the generic 404 page.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	msg := i18nOrDefault(defaultLang, "error.not_found", "Siden blev ikke fundet")
	meta := seo.Meta{Title: msg + " | " + site.Name, Robots: "noindex, nofollow"}
	vm := newPageData(r, meta)
	renderPageStatus(w, r, http.StatusNotFound, "not_found", vm)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
