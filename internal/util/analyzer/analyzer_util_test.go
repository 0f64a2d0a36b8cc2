package analyzer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		rawHTML  string
		expected int
	}{
		{"Empty", "", 0},
		{"Markup only", "<html><body><img src=a.png></body></html>", 0},
		{"Split across tags", "<p>one <b>two</b>three</p>", 3},
		{"Whitespace runs", "<div>  a\n\tb   c </div>", 3},
		{"Adjacent blocks", "<p>a</p><p>b</p>", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.rawHTML); got != tt.expected {
				t.Errorf("CountWords() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsInternalLink(t *testing.T) {
	base, _ := url.Parse("https://Example.com/blog/post")

	tests := []struct {
		name     string
		href     string
		expected bool
	}{
		{"Relative", "/about", true},
		{"Sibling", "other", true},
		{"Fragment", "#top", true},
		{"Same host different case", "https://EXAMPLE.com/x", true},
		{"Same host other port", "http://example.com:8080/x", true},
		{"Protocol relative other host", "//cdn.example.org/x", false},
		{"Other host", "https://other.com", false},
		{"Subdomain", "https://www.example.com", false},
		{"Unparseable", "http://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInternalLink(tt.href, base); got != tt.expected {
				t.Errorf("IsInternalLink(%q) = %v, want %v", tt.href, got, tt.expected)
			}
		})
	}
}

func TestHostnameWithoutWWW(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.example.com/page", "example.com"},
		{"https://WWW.Example.com", "Example.com"},
		{"https://example.com:8443", "example.com"},
		{"https://blog.example.com", "blog.example.com"},
		{"http://[::1", ""},
	}

	for _, tt := range tests {
		if got := HostnameWithoutWWW(tt.input); got != tt.expected {
			t.Errorf("HostnameWithoutWWW(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestAttrHelpers(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<head><meta name=" Description " content="x"><link rel="Alternate Canonical" href="/c"></head>`))
	if err != nil {
		t.Fatal(err)
	}

	meta := doc.Find("meta").First()
	if !AttrEquals(meta, "name", "description") {
		t.Error("AttrEquals should ignore case and surrounding space")
	}
	if AttrEquals(meta, "property", "description") {
		t.Error("AttrEquals should be false for a missing attribute")
	}

	link := doc.Find("link").First()
	if !HasRelToken(link, "canonical") {
		t.Error("HasRelToken should find canonical in a token list")
	}
	if HasRelToken(link, "icon") {
		t.Error("HasRelToken should not match absent tokens")
	}
}
