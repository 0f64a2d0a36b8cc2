package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// AttrEquals reports whether the selection's first element carries attribute key
// with a value equal to want, ignoring case and surrounding whitespace.
func AttrEquals(s *goquery.Selection, key, want string) bool {
	val, ok := s.Attr(key)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(val), want)
}

// HasRelToken reports whether the rel attribute lists token.
func HasRelToken(s *goquery.Selection, token string) bool {
	rel, ok := s.Attr("rel")
	if !ok {
		return false
	}
	for _, t := range strings.Fields(rel) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// CountWords counts whitespace separated words in the text of rawHTML once all
// markup has been stripped.
func CountWords(rawHTML string) int {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(z.Text())
			sb.WriteByte(' ')
		}
	}
	return len(strings.Fields(sb.String()))
}

// IsInternalLink compares the resolved hostname of href with the page hostname.
// Hrefs that do not parse are treated as internal.
func IsInternalLink(href string, base *url.URL) bool {
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return true
	}
	resolved := base.ResolveReference(parsed)
	return strings.EqualFold(resolved.Hostname(), base.Hostname())
}

// HostnameWithoutWWW returns the hostname of rawURL minus a leading "www.".
func HostnameWithoutWWW(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		return host[4:]
	}
	return host
}
