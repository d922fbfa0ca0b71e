package seo

import (
    "encoding/xml"
    "time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry is one <url> of sitemap.xml. Path is site-relative.
type SitemapEntry struct {
    Path       string
    LastMod    time.Time
    ChangeFreq string
    Priority   string
}

type urlSet struct {
    XMLName xml.Name     `xml:"urlset"`
    NS      string       `xml:"xmlns,attr"`
    URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
    Loc        string `xml:"loc"`
    LastMod    string `xml:"lastmod,omitempty"`
    ChangeFreq string `xml:"changefreq,omitempty"`
    Priority   string `xml:"priority,omitempty"`
}

// Sitemap encodes entries as a sitemaps.org urlset with absolute locations.
func Sitemap(site Site, entries []SitemapEntry) ([]byte, error) {
    set := urlSet{NS: sitemapNS, URLs: make([]sitemapURL, 0, len(entries))}
    for _, e := range entries {
        u := sitemapURL{
            Loc:        site.AbsoluteURL(e.Path),
            ChangeFreq: e.ChangeFreq,
            Priority:   e.Priority,
        }
        if !e.LastMod.IsZero() {
            u.LastMod = e.LastMod.UTC().Format("2006-01-02")
        }
        set.URLs = append(set.URLs, u)
    }
    out, err := xml.MarshalIndent(set, "", "  ")
    if err != nil {
        return nil, err
    }
    return append([]byte(xml.Header), out...), nil
}

// Robots returns robots.txt allowing everything and pointing at the sitemap.
func Robots(site Site) string {
    return "User-agent: *\nAllow: /\n\nSitemap: " + site.AbsoluteURL("/sitemap.xml") + "\n"
}
