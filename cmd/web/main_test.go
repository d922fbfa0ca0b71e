package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"murerholbaek.dk/web/internal/config"
	"murerholbaek.dk/web/internal/quote"
)

// newTestRouter builds the same router as main() against the repo's content.
func newTestRouter(t *testing.T, webhook string) http.Handler {
	t.Helper()
	// ensure templates reparse each request and set correct paths
	devMode = true
	templatesDir = "../../templates"
	publicDir = "../../public"
	contentDir = "../../content"
	localesDir = "../../locales"
	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates failed: %v", err)
	}
	cfg := config.Config{
		BaseURL:      "https://murerholbaek.dk",
		QuoteWebhook: webhook,
		PhoneDisplay: "+27 85 13 81",
		Email:        "infomurerholbaek@gmail.com",
	}
	if err := setup(cfg); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return newRouter()
}

func get(t *testing.T, srv http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).Attr("content")
	return v
}

// sessionCookies visits / and returns the session and csrf cookies.
func sessionCookies(t *testing.T, srv http.Handler) (*http.Cookie, *http.Cookie) {
	t.Helper()
	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess, csrf *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "MURER_WEB_SESSION":
			sess = c
		case "csrf_token":
			csrf = c
		}
	}
	require.NotNil(t, sess, "missing session cookie from GET /")
	require.NotNil(t, csrf, "missing csrf_token cookie from GET /")
	return sess, csrf
}

func postQuote(t *testing.T, srv http.Handler, form url.Values, htmx bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tilbud", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestHomeRendersServicesAndBusinessJSONLD(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)

	require.Equal(t, "Murermester i Holbæk | Murer Holbæk", doc.Find("head title").Text())
	require.Equal(t, 4, doc.Find(".service-card").Length())
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), "HomeAndConstructionBusiness")
	require.Equal(t, "tel:+27851381", doc.Find("a.header-call").AttrOr("href", ""))
	require.Equal(t, "Forside", doc.Find(".main-nav a.active").Text())
}

func TestServicesIndexKeepsCatalogOrder(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/services")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)

	var hrefs []string
	doc.Find(".service-card h3 a").Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})
	require.Equal(t, []string{
		"/services/facaderenovering",
		"/services/badevaerelsesrenovering",
		"/services/flisearbejde",
		"/services/tilbygninger",
	}, hrefs)
}

func TestServiceDetailFlisearbejde(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/services/flisearbejde")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)

	// metadata slots
	require.Equal(t, "Flisearbejde Holbæk | Fliser, Klinker & Natursten – Millimeterpræcision", doc.Find("head title").Text())
	require.Equal(t, "Perfekt flisearbejde i Holbæk til køkken, bad & terrasse. Vi leverer skærefaste fuger og slidstærke løsninger. Gratis rådgivning – kontakt os.",
		metaContent(doc, `meta[name="description"]`))
	require.Equal(t, "Flisearbejde Holbæk – Flotte fliser der holder", metaContent(doc, `meta[property="og:title"]`))
	require.Equal(t, "Din specialist i fliser og klinker i Holbæk. Få fast m²-pris og garanti.", metaContent(doc, `meta[property="og:description"]`))
	require.Equal(t, "https://murerholbaek.dk/services/flisearbejde", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	require.Equal(t, "https://murerholbaek.dk/assets/img/flisearbejde.jpg", metaContent(doc, `meta[property="og:image"]`))
	require.Equal(t, 2, doc.Find(`script[type="application/ld+json"]`).Length())

	// view
	require.Equal(t, "Flisearbejde", doc.Find(".service-hero h1").Text())
	require.Equal(t, "Få et gratis tilbud på din flisearbejde", doc.Find(".call-banner h2").Text())
	require.Equal(t, "tel:+27851381", doc.Find(".call-banner a").AttrOr("href", ""))
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, a *goquery.Selection) {
		require.NotContains(t, a.AttrOr("href", ""), "ZgotmplZ")
	})
	require.GreaterOrEqual(t, doc.Find(`a[href^="tel:"]`).Length(), 4, "header, call banner, sidebar and footer call links")
	require.Equal(t, "Fordele ved Flisearbejde", strings.TrimSpace(doc.Find("#benefits h2").Text()))
	require.Equal(t, "Få tilbud på flisearbejde", doc.Find(".service-sidebar .quote-title").Text())
	require.Equal(t, "flisearbejde", doc.Find(`select[name="service"] option[selected]`).AttrOr("value", ""))

	var benefits []string
	doc.Find("#benefits li").Each(func(_ int, s *goquery.Selection) {
		require.Equal(t, "check-circle", s.AttrOr("data-marker", ""))
		benefits = append(benefits, strings.TrimSpace(s.Text()))
	})
	require.Equal(t, []string{"Perfekt fugeafslutning", "Skræddersyede mønstre", "Holdbare materialer", "Vandtæt membran"}, benefits)

	var factors []string
	doc.Find("#price-factors li").Each(func(_ int, s *goquery.Selection) {
		require.Equal(t, "euro", s.AttrOr("data-marker", ""))
		factors = append(factors, strings.TrimSpace(s.Text()))
	})
	require.Equal(t, []string{"Flisernes type og størrelse", "Underlagets beskaffenhed", "Rumstørrelse", "Detaljegrad"}, factors)

	timeline := doc.Find("#timeline .timeline")
	require.Equal(t, "clock", timeline.AttrOr("data-marker", ""))
	require.Equal(t, "1-2 uger for standard badeværelse", strings.TrimSpace(timeline.Text()))

	// rich markdown section and breadcrumbs
	require.Contains(t, doc.Find("#details").Text(), "Præcision ned til millimeteren")
	require.Equal(t, "Flisearbejde", doc.Find(`.breadcrumbs [aria-current="page"]`).Text())
}

func TestServiceDetailUnknownSlug(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/services/ukendt")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := parseDoc(t, rec)

	require.Equal(t, "Service ikke fundet", doc.Find("main h1").Text())
	require.Contains(t, metaContent(doc, `meta[name="robots"]`), "noindex")
	require.Empty(t, metaContent(doc, `meta[property="og:title"]`))
	require.Empty(t, metaContent(doc, `meta[name="description"]`))
	require.Zero(t, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Zero(t, doc.Find(`link[rel="canonical"]`).Length())
}

func TestServiceDetailRedirectsToCanonicalSlug(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/services/FliseArbejde")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/services/flisearbejde", rec.Header().Get("Location"))

	rec = get(t, srv, "/services/ukendt-SERVICE")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceDetailIsIdempotent(t *testing.T) {
	srv := newTestRouter(t, "")
	sess, csrf := sessionCookies(t, srv)

	render := func() (string, string) {
		rec := get(t, srv, "/services/facaderenovering", sess, csrf)
		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseDoc(t, rec)
		head := doc.Find("head title").Text() + "|" +
			metaContent(doc, `meta[name="description"]`) + "|" +
			metaContent(doc, `meta[property="og:title"]`) + "|" +
			metaContent(doc, `meta[property="og:description"]`)
		main, err := doc.Find("main").Html()
		require.NoError(t, err)
		return head, main
	}

	head1, main1 := render()
	head2, main2 := render()
	require.Equal(t, head1, head2)
	require.Equal(t, main1, main2)
	require.Contains(t, head1, "Facaderenovering Holbæk | Omfugning, Vandskuring & Isolering")
}

func TestContentPages(t *testing.T) {
	srv := newTestRouter(t, "")

	t.Run("kontakt carries the quote form", func(t *testing.T) {
		rec := get(t, srv, "/kontakt")
		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseDoc(t, rec)
		require.Equal(t, "Kontakt Murer Holbæk | Gratis tilbud", doc.Find("head title").Text())
		require.Equal(t, 1, doc.Find("form#quote-form").Length())
		require.Equal(t, "Kontakt", doc.Find(".main-nav a.active").Text())
	})

	t.Run("politik shows the update date", func(t *testing.T) {
		rec := get(t, srv, "/politik")
		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseDoc(t, rec)
		require.Equal(t, "Privatlivspolitik og cookies | Murer Holbæk", doc.Find("head title").Text())
		require.Contains(t, doc.Find(".updated").Text(), "15. januar 2025")
		require.Equal(t, "Dataansvarlig", doc.Find(".prose h2").First().Text())
	})
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/findes-ikke")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Siden blev ikke fundet", parseDoc(t, rec).Find("main h1").Text())
}

func TestQuoteSubmitRequiresCSRF(t *testing.T) {
	srv := newTestRouter(t, "")
	sess, csrf := sessionCookies(t, srv)
	form := url.Values{"name": {"Jens Hansen"}, "phone": {"+45 12 34 56 78"}}
	rec := postQuote(t, srv, form, false, sess, csrf)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuoteSubmitFlow(t *testing.T) {
	var (
		mu       sync.Mutex
		received []quote.Request
		keys     []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload quote.Request
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		received = append(received, payload)
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"MH-1001","status":"received"}`)
	}))
	defer hook.Close()

	srv := newTestRouter(t, hook.URL)
	sess, csrf := sessionCookies(t, srv)

	form := url.Values{
		"_csrf":   {csrf.Value},
		"name":    {"Jens Hansen"},
		"phone":   {"+45 12 34 56 78"},
		"postal":  {"4300"},
		"service": {"flisearbejde"},
		"message": {"Nye fliser i badeværelset"},
	}
	rec := postQuote(t, srv, form, false, sess, csrf)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/tilbud/tak", rec.Header().Get("Location"))

	mu.Lock()
	require.Len(t, received, 1)
	require.Equal(t, "Jens Hansen", received[0].Name)
	require.Equal(t, "flisearbejde", received[0].Service)
	require.NotEmpty(t, keys[0])
	mu.Unlock()

	var updated *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "MURER_WEB_SESSION" {
			updated = c
		}
	}
	require.NotNil(t, updated, "session should be rewritten with the receipt")

	thanks := get(t, srv, "/tilbud/tak", updated, csrf)
	require.Equal(t, http.StatusOK, thanks.Code)
	doc := parseDoc(t, thanks)
	require.Equal(t, "MH-1001", doc.Find(".receipt .reference").Text())
	require.Contains(t, doc.Find(".receipt").Text(), "Flisearbejde")
	require.Contains(t, metaContent(doc, `meta[name="robots"]`), "noindex")
}

func TestQuoteSubmitHTMXRedirects(t *testing.T) {
	srv := newTestRouter(t, "")
	sess, csrf := sessionCookies(t, srv)
	form := url.Values{"_csrf": {csrf.Value}, "name": {"Jens"}, "email": {"jens@example.dk"}}
	rec := postQuote(t, srv, form, true, sess, csrf)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/tilbud/tak", rec.Header().Get("HX-Redirect"))
}

func TestQuoteSubmitValidation(t *testing.T) {
	srv := newTestRouter(t, "")
	sess, csrf := sessionCookies(t, srv)
	form := url.Values{"_csrf": {csrf.Value}, "phone": {"123"}, "service": {"tilbygninger"}}

	t.Run("full page", func(t *testing.T) {
		rec := postQuote(t, srv, form, false, sess, csrf)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		doc := parseDoc(t, rec)
		require.Equal(t, 1, doc.Find("html").Length())
		require.Equal(t, "Udfyld venligst dit navn.", doc.Find(`.field-error[data-field="name"]`).Text())
		require.Equal(t, "Telefonnummeret skal have mindst 8 cifre.", doc.Find(`.field-error[data-field="phone"]`).Text())
		require.Equal(t, "123", doc.Find(`input[name="phone"]`).AttrOr("value", ""))
		require.Equal(t, "tilbygninger", doc.Find(`select[name="service"] option[selected]`).AttrOr("value", ""))
	})

	t.Run("htmx fragment", func(t *testing.T) {
		rec := postQuote(t, srv, form, true, sess, csrf)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := strings.TrimSpace(rec.Body.String())
		require.True(t, strings.HasPrefix(body, `<form id="quote-form"`), body)
		require.NotContains(t, body, "<html")
		require.Contains(t, body, "Udfyld venligst dit navn.")
	})
}

func TestQuoteSubmitDeliveryFailure(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer hook.Close()

	srv := newTestRouter(t, hook.URL)
	sess, csrf := sessionCookies(t, srv)
	form := url.Values{"_csrf": {csrf.Value}, "name": {"Jens"}, "email": {"jens@example.dk"}}
	rec := postQuote(t, srv, form, false, sess, csrf)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	doc := parseDoc(t, rec)
	require.Contains(t, doc.Find(".form-alert").Text(), "Vi kunne ikke sende din forespørgsel")
	require.Equal(t, "Jens", doc.Find(`input[name="name"]`).AttrOr("value", ""))
}

func TestSitemapAndRobots(t *testing.T) {
	srv := newTestRouter(t, "")

	rec := get(t, srv, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml"))
	body := rec.Body.String()
	for _, slug := range []string{"facaderenovering", "badevaerelsesrenovering", "flisearbejde", "tilbygninger"} {
		require.Contains(t, body, "<loc>https://murerholbaek.dk/services/"+slug+"</loc>")
	}
	require.Contains(t, body, "<lastmod>2025-01-15</lastmod>")

	rec = get(t, srv, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sitemap: https://murerholbaek.dk/sitemap.xml")
}

func TestMetricsEndpointCountsResolutions(t *testing.T) {
	srv := newTestRouter(t, "")
	get(t, srv, "/services/flisearbejde")
	get(t, srv, "/services/ukendt")

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `murer_web_service_resolutions_total{state="resolved"} 1`)
	require.Contains(t, body, `murer_web_service_resolutions_total{state="not_found"} 1`)
	require.Contains(t, body, `murer_web_http_requests_total{route="/services/{slug}",status="404"} 1`)
}

func TestAssetsServedWithETag(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := get(t, srv, "/assets/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("ETag"))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestCatalogHeroImagesAreServed(t *testing.T) {
	srv := newTestRouter(t, "")
	paths := []string{site.DefaultImage}
	for _, svc := range serviceTable.All() {
		paths = append(paths, svc.HeroImage)
	}
	for _, p := range paths {
		rec := get(t, srv, p)
		require.Equal(t, http.StatusOK, rec.Code, p)
		require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"), p)
	}
}
