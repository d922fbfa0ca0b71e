// Command prerender writes per-service copies of a static page shell with
// each service's title and meta tags filled in, so crawlers that do not run
// JavaScript see the right metadata.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/catalog"
	"murerholbaek.dk/web/internal/observability"
	"murerholbaek.dk/web/internal/seo"
)

type options struct {
	Shell   string
	Content string
	Out     string
	BaseURL string
}

func main() {
	var opts options
	flag.StringVar(&opts.Shell, "shell", "dist/index.html", "existing HTML shell to copy")
	flag.StringVar(&opts.Content, "content", "content", "content directory holding catalog.yaml")
	flag.StringVar(&opts.Out, "out", "dist", "output directory")
	flag.StringVar(&opts.BaseURL, "base-url", seo.DefaultSite.BaseURL, "absolute site origin used in canonical and og:url")
	flag.Parse()

	logger, err := observability.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	written, err := run(opts, logger)
	if err != nil {
		logger.Fatal("prerender failed", zap.Error(err))
	}
	logger.Info("prerender complete", zap.Int("pages", written), zap.String("out", opts.Out))
}

// run applies each catalog service's metadata to the shell and writes
// <out>/services/<slug>/index.html. It returns the number of pages written.
func run(opts options, logger *zap.Logger) (int, error) {
	if strings.TrimSpace(opts.Shell) == "" || strings.TrimSpace(opts.Out) == "" {
		return 0, errors.New("shell and out are required")
	}
	shell, err := os.ReadFile(opts.Shell)
	if err != nil {
		return 0, fmt.Errorf("read shell: %w", err)
	}
	table, err := catalog.Load(filepath.Join(opts.Content, "catalog.yaml"))
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	site := seo.DefaultSite
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		site.BaseURL = base
	}

	written := 0
	for _, svc := range table.All() {
		meta := seo.ForService(site, svc)
		page, err := seo.Apply(bytes.NewReader(shell), meta)
		if err != nil {
			return written, fmt.Errorf("apply %s: %w", svc.Slug, err)
		}
		dir := filepath.Join(opts.Out, "services", svc.Slug)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", dir, err)
		}
		target := filepath.Join(dir, "index.html")
		if err := os.WriteFile(target, page, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", target, err)
		}
		logger.Debug("prerendered service", zap.String("slug", svc.Slug), zap.String("title", meta.Title))
		written++
	}
	return written, nil
}
