package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/format"
	"murerholbaek.dk/web/internal/observability"
)

// templateSet holds one template per page, each cloned from the shared
// layouts and partials so every page can define its own "content" block.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now":       time.Now,
		"t":         i18nOrDefaultKey,
		"lower":     format.Lower,
		"phoneLink": format.PhoneURL,
		"fmtDate":   format.FmtDate,
		"dict":      dict,
	}
}

// dict builds a map from key/value pairs so partials can take several values.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func parseTemplates() (*templateSet, error) {
	shared, err := collectTemplates(filepath.Join(templatesDir, "layouts"), filepath.Join(templatesDir, "partials"))
	if err != nil {
		return nil, err
	}
	pages, err := collectTemplates(filepath.Join(templatesDir, "pages"))
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}

	base, err := template.New("_root").Funcs(templateFuncs()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	set := &templateSet{shared: base, pages: make(map[string]*template.Template, len(pages))}
	for _, file := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".tmpl")
		set.pages[name] = clone
	}
	return set, nil
}

// collectTemplates recursively discovers .tmpl files. ParseGlob doesn't support **.
func collectTemplates(dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// currentTemplates returns the cached set, or reparses in dev mode.
func currentTemplates() (*templateSet, error) {
	if devMode || tmplCache == nil {
		return parseTemplates()
	}
	return tmplCache, nil
}

// renderPage executes the base layout with the named page.
func renderPage(w http.ResponseWriter, r *http.Request, page string, data any) {
	renderPageStatus(w, r, http.StatusOK, page, data)
}

func renderPageStatus(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	set, err := currentTemplates()
	if err != nil {
		templateError(w, r, "template parse error", err)
		return
	}
	t, ok := set.pages[page]
	if !ok {
		templateError(w, r, "unknown page template", fmt.Errorf("page %q", page))
		return
	}
	writeTemplate(w, r, status, t, "base", data)
}

// renderTemplate executes a partial, used for htmx fragments.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, name, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := currentTemplates()
	if err != nil {
		templateError(w, r, "template parse error", err)
		return
	}
	writeTemplate(w, r, status, set.shared, name, data)
}

// writeTemplate buffers output so a failing template never leaves a half
// written 200 behind.
func writeTemplate(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		templateError(w, r, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func templateError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	observability.FromContext(r.Context()).Error(msg, zap.Error(err))
	if devMode {
		http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// i18nOrDefault returns the translation for key, or def when it is missing.
func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return def
}

// i18nOrDefaultKey backs the "t" template function.
func i18nOrDefaultKey(lang, key string) string {
	return i18nOrDefault(lang, key, key)
}
