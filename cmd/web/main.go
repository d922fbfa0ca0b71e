package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "path/filepath"
    "syscall"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "murerholbaek.dk/web/internal/catalog"
    "murerholbaek.dk/web/internal/cms"
    "murerholbaek.dk/web/internal/config"
    "murerholbaek.dk/web/internal/format"
    handlersPkg "murerholbaek.dk/web/internal/handlers"
    "murerholbaek.dk/web/internal/i18n"
    "murerholbaek.dk/web/internal/metrics"
    mw "murerholbaek.dk/web/internal/middleware"
    "murerholbaek.dk/web/internal/observability"
    "murerholbaek.dk/web/internal/quote"
    "murerholbaek.dk/web/internal/seo"
)

const defaultLang = "da"

var (
    templatesDir = "templates"
    publicDir    = "public"
    contentDir   = "content"
    localesDir   = "locales"
    // devMode is set in main() based on env: MURER_WEB_DEV (preferred) or DEV (fallback)
    devMode   bool
    tmplCache *templateSet

    logger       = zap.NewNop()
    i18nBundle   *i18n.Bundle
    site         = seo.DefaultSite
    contact      handlersPkg.Contact
    analytics    handlersPkg.Analytics
    serviceTable *catalog.Table
    resolver     *handlersPkg.Resolver
    contentStore *cms.Store
    quoteClient  *quote.Client
    siteMetrics  *metrics.Metrics
)

func main() {
    cfg := config.Load()

    var (
        addr     string
        tmplPath string
        pubPath  string
        contPath string
        locPath  string
    )
    flag.StringVar(&addr, "addr", cfg.Addr, "HTTP listen address")
    flag.StringVar(&tmplPath, "templates", cfg.TemplatesDir, "templates directory")
    flag.StringVar(&pubPath, "public", cfg.PublicDir, "public assets directory")
    flag.StringVar(&contPath, "content", cfg.ContentDir, "content directory (catalog.yaml, markdown)")
    flag.StringVar(&locPath, "locales", cfg.LocalesDir, "locales directory")
    flag.Parse()

    templatesDir = tmplPath
    publicDir = pubPath
    contentDir = contPath
    localesDir = locPath
    devMode = cfg.DevMode

    var err error
    logger, err = observability.NewLogger(cfg.LogLevel)
    if err != nil {
        fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
        os.Exit(1)
    }
    defer func() { _ = logger.Sync() }()

    if err := setup(cfg); err != nil {
        logger.Fatal("startup failed", zap.Error(err))
    }
    if mw.ConfigureSessions(cfg.SessionKey, cfg.Production()) {
        logger.Warn("MURER_WEB_SESSION_SIGNING_KEY not set; using ephemeral session key")
    }

    if !devMode {
        // Parse templates once in production
        tc, err := parseTemplates()
        if err != nil {
            logger.Fatal("parse templates", zap.Error(err))
        }
        tmplCache = tc
    }

    srv := &http.Server{
        Addr:              addr,
        Handler:           newRouter(),
        ReadHeaderTimeout: 10 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      15 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    shutdown := make(chan os.Signal, 1)
    signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

    serverLogger := logger.Named("http").With(zap.String("addr", addr))
    go func() {
        serverLogger.Info("web listening", zap.Bool("dev_mode", devMode), zap.Int("services", serviceTable.Len()))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            serverLogger.Fatal("listen", zap.Error(err))
        }
    }()

    <-shutdown
    logger.Info("shutdown signal received; draining requests")
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(ctx); err != nil {
        logger.Error("graceful shutdown failed", zap.Error(err))
    }
}

// setup loads the catalog, dictionaries and collaborators shared by handlers.
func setup(cfg config.Config) error {
    table, err := catalog.Load(filepath.Join(contentDir, "catalog.yaml"))
    if err != nil {
        return fmt.Errorf("load catalog: %w", err)
    }
    bundle, err := i18n.Load(localesDir, defaultLang, []string{defaultLang})
    if err != nil {
        return fmt.Errorf("load i18n: %w", err)
    }

    site = seo.DefaultSite
    if cfg.BaseURL != "" {
        site.BaseURL = cfg.BaseURL
    }
    contact = handlersPkg.Contact{
        PhoneDisplay: cfg.PhoneDisplay,
        PhoneLink:    format.PhoneURL(cfg.PhoneDisplay),
        Email:        cfg.Email,
    }
    analytics = handlersPkg.LoadAnalyticsFromEnv()

    serviceTable = table
    i18nBundle = bundle
    resolver = handlersPkg.NewResolver(table, site)
    contentStore = cms.NewStore(contentDir)
    if devMode {
        contentStore.SetCacheDuration(0)
    }
    quoteClient = quote.NewClient(cfg.QuoteWebhook)
    if !quoteClient.Configured() {
        logger.Warn("MURER_WEB_QUOTE_WEBHOOK not set; quote requests are only logged")
    }
    siteMetrics = metrics.New()
    return nil
}

// newRouter wires middleware and routes. Tests build the same router.
func newRouter() http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    // If deployed behind a trusted reverse proxy/load balancer, RealIP will use
    // X-Forwarded-For to determine the client IP. Ensure only trusted proxies
    // can set these headers in production environments.
    r.Use(middleware.RealIP)
    r.Use(mw.Logger(logger))
    r.Use(mw.Metrics(siteMetrics))
    r.Use(middleware.Recoverer)
    r.Use(middleware.Compress(5))
    r.Use(middleware.Timeout(30 * time.Second))
    r.Use(mw.HTMX)

    // Health check
    r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "text/plain; charset=utf-8")
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    r.Handle("/metrics", siteMetrics.Handler())
    r.Get("/robots.txt", RobotsHandler)
    r.Get("/sitemap.xml", SitemapHandler)

    // Static assets under /assets/
    assetMaxAge := 7 * 24 * time.Hour
    if devMode {
        assetMaxAge = 0
    }
    r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), assetMaxAge)))

    r.Group(func(r chi.Router) {
        r.Use(mw.Session)
        r.Use(mw.CSRF)

        r.Get("/", HomeHandler)
        r.Get("/services", ServicesIndexHandler)
        r.Get("/services/{slug}", ServiceDetailHandler)
        r.Get("/kontakt", ContentPageHandler("kontakt"))
        r.Get("/politik", ContentPageHandler("politik"))
        r.Post("/tilbud", QuoteSubmitHandler)
        r.Get("/tilbud/tak", QuoteThanksHandler)
    })
    r.NotFound(NotFoundHandler)
    return r
}
