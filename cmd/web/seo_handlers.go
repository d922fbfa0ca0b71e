package main

import (
	"net/http"

	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/observability"
	"murerholbaek.dk/web/internal/seo"
)

// SitemapHandler lists the indexable pages: home, the services index, every
// catalog service and the content pages.
func SitemapHandler(w http.ResponseWriter, r *http.Request) {
	entries := []seo.SitemapEntry{
		{Path: "/", ChangeFreq: "weekly", Priority: "1.0"},
		{Path: "/services", ChangeFreq: "weekly", Priority: "0.9"},
	}
	for _, svc := range serviceTable.All() {
		entries = append(entries, seo.SitemapEntry{Path: seo.ServicePath(svc.Slug), ChangeFreq: "monthly", Priority: "0.8"})
	}
	for _, slug := range []string{"kontakt", "politik"} {
		e := seo.SitemapEntry{Path: "/" + slug, ChangeFreq: "yearly", Priority: "0.5"}
		if page, err := contentStore.Get(r.Context(), "pages", slug); err == nil {
			e.LastMod = page.UpdatedAt
		}
		entries = append(entries, e)
	}

	body, err := seo.Sitemap(site, entries)
	if err != nil {
		observability.FromContext(r.Context()).Error("encode sitemap", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// RobotsHandler serves robots.txt.
func RobotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(site)))
}
