package main

import (
	"net/http"

	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/format"
	handlersPkg "murerholbaek.dk/web/internal/handlers"
	mw "murerholbaek.dk/web/internal/middleware"
	"murerholbaek.dk/web/internal/observability"
	"murerholbaek.dk/web/internal/quote"
	"murerholbaek.dk/web/internal/seo"
)

const quoteThanksPath = "/tilbud/tak"

// QuoteSubmitHandler validates and forwards a quote request. Success
// redirects to the thank-you page; validation errors re-render the form
// with 422 (only the fragment for htmx requests).
func QuoteSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	log := observability.FromContext(r.Context())
	req := quote.FromForm(r.PostForm)

	title := i18nOrDefault(defaultLang, "home.cta", "Få et gratis tilbud")
	if svc, ok := serviceTable.Lookup(req.Service); ok {
		title = "Få tilbud på " + format.Lower(svc.Title)
	} else {
		req.Service = ""
	}
	form := newQuoteForm(r, title, req.Service)

	if errs := req.Validate(); errs != nil {
		siteMetrics.ObserveQuote("invalid")
		renderQuoteForm(w, r, http.StatusUnprocessableEntity, form.WithValues(req, errs))
		return
	}

	receipt, err := quoteClient.Submit(r.Context(), req)
	if err != nil {
		siteMetrics.ObserveQuote("failed")
		log.Error("quote delivery failed", zap.Error(err))
		failed := form.WithValues(req, nil)
		failed.Failed = true
		renderQuoteForm(w, r, http.StatusBadGateway, failed)
		return
	}
	siteMetrics.ObserveQuote("accepted")
	log.Info("quote received",
		zap.String("quote_id", receipt.ID),
		zap.String("service", req.Service),
		zap.Bool("delivered", receipt.Delivered),
	)

	mw.GetSession(r).RememberQuote(mw.QuoteReceipt{
		ID:         receipt.ID,
		Service:    req.Service,
		ReceivedAt: receipt.ReceivedAt,
	})
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", quoteThanksPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, quoteThanksPath, http.StatusSeeOther)
}

func renderQuoteForm(w http.ResponseWriter, r *http.Request, status int, form handlersPkg.QuoteForm) {
	if mw.IsHTMX(r.Context()) {
		renderTemplateStatus(w, r, status, "quote_form", form)
		return
	}
	title := i18nOrDefault(defaultLang, "home.cta", "Få et gratis tilbud")
	meta := seo.ForPage(site, "/tilbud", title, "")
	meta.Robots = "noindex, nofollow"
	vm := newPageData(r, meta)
	vm.Quote = form
	renderPageStatus(w, r, status, "quote", vm)
}

// QuoteThanksHandler confirms the last submission stored in the session.
func QuoteThanksHandler(w http.ResponseWriter, r *http.Request) {
	title := i18nOrDefault(defaultLang, "quote.thanks.title", "Tak for din henvendelse")
	meta := seo.ForPage(site, quoteThanksPath, title, "")
	meta.Robots = "noindex, nofollow"

	thanks := handlersPkg.QuoteThanks{}
	if last := mw.GetSession(r).LastQuote; last != nil {
		thanks.Reference = last.ID
		thanks.ReceivedAt = format.FmtDate(last.ReceivedAt)
		if svc, ok := serviceTable.Lookup(last.Service); ok {
			thanks.ServiceTitle = svc.Title
		}
	}

	vm := newPageData(r, meta)
	vm.Quote = thanks
	renderPage(w, r, "quote_thanks", vm)
}
