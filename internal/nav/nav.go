package nav

import (
    "path"
    "strings"
)

// Item represents a top-level navigation item.
type Item struct {
    Path     string // e.g. "/services"
    LabelKey string // i18n key, e.g. "nav.services"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
    Href     string
    LabelKey string
    Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
    Href     string
    LabelKey string
    Label    string
    Active   bool
}

// Link is a footer link. Either LabelKey or Label is set.
type Link struct {
    Href     string
    LabelKey string
    Label    string
}

// Main is the primary navigation definition.
var Main = []Item{
    {Path: "/", LabelKey: "nav.home"},
    {Path: "/services", LabelKey: "nav.services"},
    {Path: "/kontakt", LabelKey: "nav.contact"},
}

// footerServiceSlugs are the services linked from the footer's quick links.
var footerServiceSlugs = []string{
    "facaderenovering",
    "badevaerelsesrenovering",
    "flisearbejde",
}

// FooterServiceNames is the plain-text service list shown in the footer.
var FooterServiceNames = []string{
    "Murværk",
    "Flisearbejde",
    "Facaderenovering",
    "Tilbygninger",
    "Reparationer",
}

// LabelFunc resolves a display label for a service slug.
type LabelFunc func(slug string) (string, bool)

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
    if currentPath == "" {
        currentPath = "/"
    }
    items := make([]RenderedItem, 0, len(Main))
    for _, it := range Main {
        active := isActive(it.Path, currentPath)
        items = append(items, RenderedItem{
            Href:     it.Path,
            LabelKey: it.LabelKey,
            Active:   active,
        })
    }
    return items
}

func isActive(itemPath, currentPath string) bool {
    if itemPath == "/" {
        return currentPath == "/"
    }
    // match exact or prefix boundary: "/services" or "/services/..."
    if currentPath == itemPath {
        return true
    }
    if strings.HasPrefix(currentPath, itemPath+"/") {
        return true
    }
    return false
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Forside
// - For known top-level sections, use nav label keys
// - Deeper segments use label(segment) when known, else a prettified segment
func Breadcrumbs(currentPath string, label LabelFunc) []Crumb {
    var crumbs []Crumb
    if currentPath == "" {
        currentPath = "/"
    }
    crumbs = append(crumbs, Crumb{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"})
    if currentPath == "/" {
        return crumbs
    }

    clean := path.Clean(currentPath)
    if clean == "." || clean == "/" {
        return crumbs
    }
    parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

    top := "/" + parts[0]
    labelKey := ""
    for _, it := range Main {
        if it.Path == top {
            labelKey = it.LabelKey
            break
        }
    }
    crumbs = append(crumbs, Crumb{Href: top, LabelKey: labelKey, Label: titleFromSegment(parts[0]), Active: len(parts) == 1})

    href := top
    for i := 1; i < len(parts); i++ {
        href = href + "/" + parts[i]
        text := titleFromSegment(parts[i])
        if label != nil {
            if l, ok := label(parts[i]); ok {
                text = l
            }
        }
        crumbs = append(crumbs, Crumb{
            Href:   href,
            Label:  text,
            Active: i == len(parts)-1,
        })
    }
    return crumbs
}

// ServiceLinks returns every service slug linked from navigation.
func ServiceLinks() []string {
    return append([]string(nil), footerServiceSlugs...)
}

// FooterLinks returns the footer quick links. Service labels come from label.
func FooterLinks(label LabelFunc) []Link {
    links := []Link{
        {Href: "/", LabelKey: "nav.home"},
        {Href: "/services", LabelKey: "nav.services"},
    }
    for _, slug := range footerServiceSlugs {
        text := titleFromSegment(slug)
        if label != nil {
            if l, ok := label(slug); ok {
                text = l
            }
        }
        links = append(links, Link{Href: "/services/" + slug, Label: text})
    }
    links = append(links,
        Link{Href: "/kontakt", LabelKey: "nav.contact"},
        Link{Href: "/politik", LabelKey: "nav.privacy"},
    )
    return links
}

func titleFromSegment(seg string) string {
    if seg == "" {
        return seg
    }
    // replace hyphens/underscores with spaces and capitalize first letter
    s := strings.ReplaceAll(seg, "-", " ")
    s = strings.ReplaceAll(s, "_", " ")
    r := []rune(s)
    r[0] = toUpper(r[0])
    return string(r)
}

func toUpper(r rune) rune {
    // ASCII only is sufficient for slugs here
    if r >= 'a' && r <= 'z' {
        return r - ('a' - 'A')
    }
    return r
}
