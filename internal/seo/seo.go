package seo

import (
    "html/template"
    "net/url"
    "strings"

    "murerholbaek.dk/web/internal/catalog"
)

// Site describes the brand values used when synthesizing metadata.
type Site struct {
    Name         string // e.g. "Murer Holbæk"
    City         string // e.g. "Holbæk"
    TitleSuffix  string // e.g. "Murermester Holbæk"
    BaseURL      string // absolute origin, no trailing slash
    DefaultImage string
    Locale       string // e.g. "da_DK"
}

// DefaultSite is the production brand.
var DefaultSite = Site{
    Name:         "Murer Holbæk",
    City:         "Holbæk",
    TitleSuffix:  "Murermester Holbæk",
    BaseURL:      "https://murerholbaek.dk",
    DefaultImage: "/assets/img/og-default.jpg",
    Locale:       "da_DK",
}

type OpenGraph struct {
    Title       string
    Description string
    Image       string
    Type        string
    URL         string
    SiteName    string
    Locale      string
}

type Twitter struct {
    Card  string
    Image string
}

// Meta is the document-level metadata for one page. The page shell decides
// how to apply it: templates render it into <head>, Apply rewrites an
// existing document.
type Meta struct {
    Title       string
    Description string
    Canonical   string
    Robots      string
    OG          OpenGraph
    Twitter     Twitter
    JSONLD      []template.JS
}

// FallbackTitle synthesizes a page title for records without an SEO title.
func (s Site) FallbackTitle(title string) string {
    title = strings.TrimSpace(title)
    suffix := strings.TrimSpace(s.TitleSuffix)
    if city := strings.TrimSpace(s.City); city != "" {
        title = title + " " + city
    }
    if suffix == "" {
        return title
    }
    return title + " | " + suffix
}

// AbsoluteURL resolves p against the site's base URL. Absolute inputs are
// returned unchanged.
func (s Site) AbsoluteURL(p string) string {
    p = strings.TrimSpace(p)
    if p == "" {
        return ""
    }
    if u, err := url.Parse(p); err == nil && u.IsAbs() {
        return p
    }
    base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
    if !strings.HasPrefix(p, "/") {
        p = "/" + p
    }
    return base + p
}

// ServicePath returns the site path of a service detail page.
func ServicePath(slug string) string {
    return "/services/" + slug
}

// ForService computes the metadata of a service detail page.
//
//   title          = SEOTitle, else FallbackTitle(Title)
//   description    = SEODescription, else Description
//   og:title       = OGTitle, else title
//   og:description = OGDescription, else SEODescription, else Description
//
// An override that is empty or only whitespace counts as unset, so a blank
// seo_title in the catalog falls through like a missing one.
func ForService(site Site, svc catalog.Service) Meta {
    title := firstNonEmpty(svc.SEOTitle, site.FallbackTitle(svc.Title))
    canonical := site.AbsoluteURL(ServicePath(svc.Slug))
    image := site.AbsoluteURL(firstNonEmpty(svc.HeroImage, site.DefaultImage))

    m := Meta{
        Title:       title,
        Description: firstNonEmpty(svc.SEODescription, svc.Description),
        Canonical:   canonical,
        Robots:      "index, follow",
        OG: OpenGraph{
            Title:       firstNonEmpty(svc.OGTitle, title),
            Description: firstNonEmpty(svc.OGDescription, svc.SEODescription, svc.Description),
            Image:       image,
            Type:        "website",
            URL:         canonical,
            SiteName:    site.Name,
            Locale:      site.Locale,
        },
        Twitter: Twitter{Card: "summary_large_image", Image: image},
    }
    m.JSONLD = []template.JS{
        template.JS(JSON(Service(svc.Title, m.Description, canonical, image, site))),
        template.JS(JSON(BreadcrumbList([]BreadcrumbItem{
            {Name: "Forside", Item: site.AbsoluteURL("/")},
            {Name: "Services", Item: site.AbsoluteURL("/services")},
            {Name: svc.Title, Item: canonical},
        }))),
    }
    return m
}

// ForPage builds metadata for a plain page where title and description are
// the only inputs. The brand name is appended to the title.
func ForPage(site Site, path, title, description string) Meta {
    full := strings.TrimSpace(title)
    if site.Name != "" && full != site.Name {
        full = full + " | " + site.Name
    }
    canonical := site.AbsoluteURL(path)
    image := site.AbsoluteURL(site.DefaultImage)
    return Meta{
        Title:       full,
        Description: description,
        Canonical:   canonical,
        Robots:      "index, follow",
        OG: OpenGraph{
            Title:       full,
            Description: description,
            Image:       image,
            Type:        "website",
            URL:         canonical,
            SiteName:    site.Name,
            Locale:      site.Locale,
        },
        Twitter: Twitter{Card: "summary_large_image", Image: image},
    }
}

func firstNonEmpty(values ...string) string {
    for _, v := range values {
        if strings.TrimSpace(v) != "" {
            return v
        }
    }
    return ""
}
