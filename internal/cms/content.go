package cms

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a content page cannot be located.
var ErrNotFound = errors.New("cms: not found")

// Page is a static page or a rich content section sourced from local markdown.
type Page struct {
	Kind      string
	Slug      string
	Title     string
	Summary   string
	Body      template.HTML
	Format    string // "markdown" (default) or "html"
	UpdatedAt time.Time
	SEO       PageSEO
}

// PageSEO holds optional metadata overrides for static pages.
type PageSEO struct {
	Title       string
	Description string
	OGImage     string
}

type frontMatter struct {
	Title     string         `yaml:"title"`
	Summary   string         `yaml:"summary"`
	Format    string         `yaml:"format"`
	UpdatedAt string         `yaml:"updated_at"`
	SEO       frontMatterSEO `yaml:"seo"`
}

type frontMatterSEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	OGImage     string `yaml:"og_image"`
}

const (
	defaultContentFormat = "markdown"
	defaultContentDir    = "content"
	defaultCacheTTL      = 5 * time.Minute
)

// Store reads pages from <dir>/<kind>/<slug>.md and caches the rendered result.
type Store struct {
	dir      string
	renderer *Renderer

	mu    sync.RWMutex
	items map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	return &Store{
		dir:      dir,
		renderer: NewRenderer(),
		items:    map[string]cacheEntry{},
		ttl:      defaultCacheTTL,
	}
}

// SetCacheDuration overrides the in-memory cache duration. Zero or negative
// disables caching, which is what dev mode wants.
func (s *Store) SetCacheDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = d
	s.items = map[string]cacheEntry{}
}

// Get returns the rendered page for kind/slug, or ErrNotFound.
func (s *Store) Get(ctx context.Context, kind, slug string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	kind = sanitizeSlug(kind)
	slug = sanitizeSlug(slug)
	if kind == "" || slug == "" {
		return Page{}, ErrNotFound
	}

	key := kind + "|" + slug
	if page, ok := s.cached(key); ok {
		return page, nil
	}
	page, err := s.read(kind, slug)
	if err != nil {
		return Page{}, err
	}
	s.store(key, page)
	return page, nil
}

func (s *Store) read(kind, slug string) (Page, error) {
	file := filepath.Join(s.dir, kind, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	format := strings.ToLower(strings.TrimSpace(front.Format))
	if format == "" {
		format = defaultContentFormat
	}
	rendered, err := s.renderer.Render(body, format)
	if err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
	}
	page := Page{
		Kind:    kind,
		Slug:    slug,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    rendered,
		Format:  format,
		SEO: PageSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	page.UpdatedAt = parseContentDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() {
		if info, statErr := os.Stat(file); statErr == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		// fall back to slug prettified
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func (s *Store) cached(key string) (Page, bool) {
	now := time.Now()
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl <= 0 {
		return
	}
	s.items[key] = cacheEntry{page: page, expires: time.Now().Add(s.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}
	if strings.Contains(slug, "..") {
		return ""
	}
	if strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
