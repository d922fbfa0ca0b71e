package seo

import (
    "encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
    b, err := json.Marshal(v)
    if err != nil {
        return ""
    }
    return string(b)
}

// Business returns a HomeAndConstructionBusiness schema for the site.
func Business(site Site, phone, email string) map[string]any {
    m := map[string]any{
        "@context": "https://schema.org",
        "@type":    "HomeAndConstructionBusiness",
        "name":     site.Name,
    }
    if site.BaseURL != "" { m["url"] = site.BaseURL }
    if phone != "" { m["telephone"] = phone }
    if email != "" { m["email"] = email }
    if site.City != "" {
        m["address"] = map[string]any{
            "@type":           "PostalAddress",
            "addressLocality": site.City,
            "addressCountry":  "DK",
        }
        m["areaServed"] = site.City
    }
    return m
}

// Service returns a schema.org Service offered by the site's business.
func Service(name, description, url, imageURL string, site Site) map[string]any {
    m := map[string]any{
        "@context":    "https://schema.org",
        "@type":       "Service",
        "name":        name,
        "description": description,
        "provider": map[string]any{
            "@type": "HomeAndConstructionBusiness",
            "name":  site.Name,
        },
    }
    if url != "" { m["url"] = url }
    if imageURL != "" { m["image"] = imageURL }
    if site.City != "" { m["areaServed"] = site.City }
    return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
    Name string
    Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
    el := make([]map[string]any, 0, len(items))
    for i, it := range items {
        el = append(el, map[string]any{
            "@type":    "ListItem",
            "position": i + 1,
            "name":     it.Name,
            "item":     it.Item,
        })
    }
    return map[string]any{
        "@context":        "https://schema.org",
        "@type":           "BreadcrumbList",
        "itemListElement": el,
    }
}
