// Package sanitize turns user-submitted text into display-safe strings.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Text without markup is only collapsed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}

	doc.Find("script, style, noscript").Remove()
	// Block level elements would otherwise glue neighbouring words together
	doc.Find("br, p, div, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return collapse(doc.Find("body").Text())
}

// Excerpt shortens text to at most max bytes, cutting at the last full
// sentence when there is one.
func Excerpt(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	head := text[:cut]

	sentences := strings.Split(head, ".")
	if len(sentences) > 1 {
		return strings.TrimSpace(strings.Join(sentences[:len(sentences)-1], ".") + ".")
	}
	return strings.TrimSpace(head) + "..."
}

// MaskPhone keeps the first three and last two characters of a phone number.
// "9876543210" becomes "987****10".
func MaskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) < 5 {
		return phone
	}
	return string(runes[:3]) + strings.Repeat("*", 4) + string(runes[len(runes)-2:])
}

// FirstName returns the first word of a full name
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
