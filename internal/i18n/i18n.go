package i18n

import (
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
)

// Bundle holds UI strings per language. Page content lives in the catalog
// and cms; the bundle only covers headings, labels and buttons.
type Bundle struct {
    dict     map[string]map[string]string
    fallback string
}

// Load reads <dir>/<lang>.json for every supported language. Only the
// fallback dictionary is mandatory.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
    if len(supported) == 0 {
        supported = []string{fallback}
    }
    b := &Bundle{
        dict:     make(map[string]map[string]string, len(supported)),
        fallback: fallback,
    }
    for _, lang := range supported {
        m, err := readDict(filepath.Join(dir, lang+".json"))
        switch {
        case err == nil:
            b.dict[lang] = m
        case errors.Is(err, fs.ErrNotExist) && lang != fallback:
            // optional locale
        default:
            return nil, fmt.Errorf("load locale %s: %w", lang, err)
        }
    }
    if _, ok := b.dict[fallback]; !ok {
        return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
    }
    return b, nil
}

func readDict(path string) (map[string]string, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }
    var m map[string]string
    if err := json.Unmarshal(raw, &m); err != nil {
        return nil, err
    }
    return m, nil
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
    if b == nil {
        return key
    }
    if lang != "" {
        if m, ok := b.dict[lang]; ok {
            if v, ok := m[key]; ok {
                return v
            }
        }
    }
    if m, ok := b.dict[b.fallback]; ok {
        if v, ok := m[key]; ok {
            return v
        }
    }
    return key
}
