package quote

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameLength    = 120
	maxMessageLength = 4000
)

// Request is a quote request submitted from the site's contact form.
type Request struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Postal  string `json:"postal,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message,omitempty"`
}

// FieldErrors maps form field names to user-facing (Danish) messages.
type FieldErrors map[string]string

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// FromForm builds a trimmed Request from posted form values.
func FromForm(v url.Values) Request {
	return Request{
		Name:    strings.TrimSpace(v.Get("name")),
		Phone:   strings.TrimSpace(v.Get("phone")),
		Email:   strings.TrimSpace(v.Get("email")),
		Postal:  strings.TrimSpace(v.Get("postal")),
		Service: strings.TrimSpace(v.Get("service")),
		Message: strings.TrimSpace(v.Get("message")),
	}
}

// Validate checks the request and returns nil when it is acceptable.
// A name is required, and at least one of phone and email.
func (r Request) Validate() FieldErrors {
	errs := FieldErrors{}
	switch {
	case r.Name == "":
		errs["name"] = "Udfyld venligst dit navn."
	case utf8.RuneCountInString(r.Name) > maxNameLength:
		errs["name"] = "Navnet er for langt."
	}
	if r.Phone == "" && r.Email == "" {
		errs["phone"] = "Angiv telefonnummer eller email, så vi kan kontakte dig."
	}
	if r.Phone != "" && countDigits(r.Phone) < 8 {
		errs["phone"] = "Telefonnummeret skal have mindst 8 cifre."
	}
	if r.Email != "" {
		if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
			errs["email"] = "Emailadressen er ikke gyldig."
		}
	}
	if r.Postal != "" && (len(r.Postal) != 4 || countDigits(r.Postal) != 4) {
		errs["postal"] = "Postnummeret skal have 4 cifre."
	}
	if utf8.RuneCountInString(r.Message) > maxMessageLength {
		errs["message"] = "Beskrivelsen er for lang."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
