package format

import (
    "fmt"
    "html/template"
    "strings"
    "time"

    "golang.org/x/text/cases"
    "golang.org/x/text/language"
)

var danishLower = cases.Lower(language.Danish)

// Lower lower-cases s with Danish casing rules.
// Example: Lower("Badeværelsesrenovering") => "badeværelsesrenovering"
func Lower(s string) string {
    return danishLower.String(s)
}

// PhoneLink turns a display number into a tel: URI.
// Example: PhoneLink("+27 85 13 81") => "tel:+27851381"
func PhoneLink(display string) string {
    var b strings.Builder
    for i, r := range strings.TrimSpace(display) {
        switch {
        case r >= '0' && r <= '9':
            b.WriteRune(r)
        case r == '+' && i == 0:
            b.WriteRune(r)
        }
    }
    if b.Len() == 0 {
        return ""
    }
    return "tel:" + b.String()
}

// PhoneURL is PhoneLink typed for href attributes. html/template rewrites
// tel: strings to "#ZgotmplZ"; the output here is only "tel:", "+" and digits.
func PhoneURL(display string) template.URL {
    return template.URL(PhoneLink(display))
}

var danishMonths = [...]string{
    "januar", "februar", "marts", "april", "maj", "juni",
    "juli", "august", "september", "oktober", "november", "december",
}

// FmtDate formats t as a Danish long date, e.g. "19. oktober 2026".
func FmtDate(t time.Time) string {
    if t.IsZero() {
        return ""
    }
    return fmt.Sprintf("%d. %s %d", t.Day(), danishMonths[t.Month()-1], t.Year())
}
