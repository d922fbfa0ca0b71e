package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/catalog"
	"murerholbaek.dk/web/internal/cms"
	handlersPkg "murerholbaek.dk/web/internal/handlers"
	"murerholbaek.dk/web/internal/observability"
	"murerholbaek.dk/web/internal/seo"
)

// ServiceDetailHandler renders /services/{slug}. An unknown slug renders the
// fallback view with 404 and no service metadata. A slug that only differs
// from a catalog key by case or surrounding slashes is redirected to the
// canonical path.
func ServiceDetailHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if canonical := catalog.NormalizeSlug(slug); canonical != slug && serviceTable.Has(canonical) {
		http.Redirect(w, r, seo.ServicePath(canonical), http.StatusMovedPermanently)
		return
	}
	res := resolver.Resolve(slug)
	siteMetrics.ObserveResolution(res.State.String())
	log := observability.FromContext(r.Context()).With(zap.String("slug", slug))

	if res.State == handlersPkg.StateNotFound {
		log.Info("service not found")
		meta := seo.Meta{
			Title:  res.View.NotFoundMessage + " | " + site.Name,
			Robots: "noindex, nofollow",
		}
		vm := newPageData(r, meta)
		vm.Service = handlersPkg.ServiceDetailPage{View: res.View}
		renderPageStatus(w, r, http.StatusNotFound, "service_not_found", vm)
		return
	}

	page := handlersPkg.ServiceDetailPage{
		View:  res.View,
		Quote: newQuoteForm(r, res.View.QuoteTitle, res.View.Slug),
	}
	rich, err := contentStore.Get(r.Context(), "services", res.View.Slug)
	switch {
	case err == nil:
		page.Rich = rich.Body
	case errors.Is(err, cms.ErrNotFound):
		// no rich section for this service
	default:
		log.Warn("load service content", zap.Error(err))
	}

	vm := newPageData(r, *res.Meta)
	vm.Service = page
	renderPage(w, r, "service_detail", vm)
}
