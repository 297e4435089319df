// Package sanitize contains pure helpers normalizing links and text coming from publishers.
package sanitize

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	newlineRe = regexp.MustCompile(`\r?\n|\r`)
	hexRefRe  = regexp.MustCompile(`&#x([0-9A-Fa-f]+);`)
	strict    = bluemonday.StrictPolicy()
)

// URL validates link and returns its canonical form, or empty string if link is blank, malformed
// or not http(s). Canonical form has control characters removed, html entities decoded,
// utm_* query parameters dropped and http upgraded to https.
func URL(link string) string {
	if strings.TrimSpace(link) == "" {
		return ""
	}

	link = normalize(link)
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	lower := strings.ToLower(link)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}

	link = dropUtmParams(link)
	if strings.HasPrefix(strings.ToLower(link), "http://") {
		link = "https://" + link[len("http://"):]
	}
	return link
}

// Content removes all line breaks and decodes hexadecimal numeric character references
func Content(text string) string {
	if text == "" {
		return text
	}
	text = newlineRe.ReplaceAllString(text, "")
	return hexRefRe.ReplaceAllStringFunc(text, func(ref string) string {
		code, err := strconv.ParseInt(hexRefRe.FindStringSubmatch(ref)[1], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return ref
		}
		return string(rune(code))
	})
}

// StripTags converts an html fragment into plain text
func StripTags(fragment string) string {
	if fragment == "" {
		return fragment
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(fragment)))
}

// normalize removes control and whitespace characters leaking into links and decodes html entities
func normalize(link string) string {
	link = html.UnescapeString(link)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, link)
}

// dropUtmParams removes utm_* query parameters keeping order of the rest and the fragment
func dropUtmParams(link string) string {
	fragment := ""
	if i := strings.Index(link, "#"); i >= 0 {
		link, fragment = link[:i], link[i:]
	}
	i := strings.Index(link, "?")
	if i < 0 {
		return link + fragment
	}
	base, query := link[:i], link[i+1:]
	if query == "" {
		return link + fragment
	}

	kept := make([]string, 0, 4)
	for _, param := range strings.Split(query, "&") {
		if strings.HasPrefix(strings.ToLower(param), "utm_") {
			continue
		}
		if param != "" {
			kept = append(kept, param)
		}
	}
	if len(kept) == 0 {
		return base + fragment
	}
	return base + "?" + strings.Join(kept, "&") + fragment
}
