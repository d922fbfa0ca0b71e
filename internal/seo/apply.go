package seo

import (
    "bytes"
    "fmt"
    "io"
    "strings"

    "golang.org/x/net/html"
    "golang.org/x/net/html/atom"
)

// Apply writes meta into the metadata slots of an existing HTML document:
// the <title> element and the description, og:title and og:description
// <meta> tags. A missing <meta> slot is skipped; a missing <title> is created
// inside <head>.
func Apply(r io.Reader, meta Meta) ([]byte, error) {
    doc, err := html.Parse(r)
    if err != nil {
        return nil, fmt.Errorf("seo: parse document: %w", err)
    }

    setTitle(doc, meta.Title)
    setMetaContent(doc, "name", "description", meta.Description)
    setMetaContent(doc, "property", "og:title", meta.OG.Title)
    setMetaContent(doc, "property", "og:description", meta.OG.Description)

    var buf bytes.Buffer
    if err := html.Render(&buf, doc); err != nil {
        return nil, fmt.Errorf("seo: render document: %w", err)
    }
    return buf.Bytes(), nil
}

func setTitle(doc *html.Node, title string) {
    el := find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title })
    if el == nil {
        head := find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Head })
        if head == nil {
            return
        }
        el = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
        head.AppendChild(el)
    }
    for c := el.FirstChild; c != nil; {
        next := c.NextSibling
        el.RemoveChild(c)
        c = next
    }
    el.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// setMetaContent updates the first <meta> whose attr equals key, mirroring
// querySelector semantics.
func setMetaContent(doc *html.Node, attr, key, content string) {
    el := find(doc, func(n *html.Node) bool {
        return n.DataAtom == atom.Meta && strings.EqualFold(attrValue(n, attr), key)
    })
    if el == nil {
        return
    }
    for i := range el.Attr {
        if el.Attr[i].Namespace == "" && el.Attr[i].Key == "content" {
            el.Attr[i].Val = content
            return
        }
    }
    el.Attr = append(el.Attr, html.Attribute{Key: "content", Val: content})
}

func attrValue(n *html.Node, key string) string {
    for _, a := range n.Attr {
        if a.Namespace == "" && a.Key == key {
            return a.Val
        }
    }
    return ""
}

// find returns the first element in document order matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
    if n.Type == html.ElementNode && pred(n) {
        return n
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if found := find(c, pred); found != nil {
            return found
        }
    }
    return nil
}
