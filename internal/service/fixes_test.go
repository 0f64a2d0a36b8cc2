package service

import (
	"fmt"
	"strings"
	"testing"
)

func findFix(t *testing.T, htmlStr, pageURL, issue string) (string, int) {
	t.Helper()
	report := Analyze(htmlStr, pageURL, true, 0)
	code, count := "", 0
	for _, fix := range report.FixCode {
		if fix.Issue == issue {
			code = fix.Code
			count++
		}
	}
	return code, count
}

func TestFixCodeFollowsRecommendations(t *testing.T) {
	report := Analyze(`<html><head></head><body><img src="a.png"></body></html>`, "https://www.ex.com/page", true, 0)

	if len(report.FixCode) != len(report.Recommendations)+1 {
		t.Fatalf("FixCode has %d entries, want %d", len(report.FixCode), len(report.Recommendations)+1)
	}
	for i, rec := range report.Recommendations {
		if report.FixCode[i].Issue != rec {
			t.Errorf("FixCode[%d].Issue = %q, want %q", i, report.FixCode[i].Issue, rec)
		}
	}
	if last := report.FixCode[len(report.FixCode)-1]; last.Issue != RecMissingOpenGraph {
		t.Errorf("last fix = %q, want %q", last.Issue, RecMissingOpenGraph)
	}
}

func TestTitleFix(t *testing.T) {
	code, _ := findFix(t, "<html></html>", "https://www.example.org/about", RecMissingTitle)
	want := "<title>example.org — Your Page Title | Brand Name</title>"
	if code != want {
		t.Errorf("title fix = %q, want %q", code, want)
	}
}

func TestDescriptionFixLength(t *testing.T) {
	code, count := findFix(t, "<html></html>", "https://example.com", RecMissingDescription)
	if count != 1 {
		t.Fatalf("got %d description fixes, want 1", count)
	}
	if !strings.HasPrefix(code, `<meta name="description" content="`) {
		t.Errorf("unexpected description fix %q", code)
	}
	if n := len(placeholderDescription); n < 150 || n > 160 {
		t.Errorf("placeholder description is %d characters, want 150-160", n)
	}
}

func TestCanonicalFixUsesAuditedURL(t *testing.T) {
	code, _ := findFix(t, "<html></html>", "https://example.com/pricing", RecMissingCanonical)
	want := `<link rel="canonical" href="https://example.com/pricing">`
	if code != want {
		t.Errorf("canonical fix = %q, want %q", code, want)
	}
}

func TestViewportAndH1Fixes(t *testing.T) {
	if code, _ := findFix(t, "<html></html>", "https://example.com", RecMissingViewport); code != viewportFix {
		t.Errorf("viewport fix = %q", code)
	}
	if code, _ := findFix(t, "<html></html>", "https://example.com", RecMissingH1); code != placeholderH1 {
		t.Errorf("h1 fix = %q", code)
	}
}

func TestImageAltFix(t *testing.T) {
	t.Run("Single image keeps src", func(t *testing.T) {
		code, count := findFix(t, `<html><body><img src="hero.jpg"></body></html>`, "https://example.com", RecMissingImageAlt)
		if count != 1 {
			t.Fatalf("got %d image fixes, want 1", count)
		}
		want := fmt.Sprintf(`<img src="hero.jpg" alt="%s">`, placeholderAlt)
		if code != want {
			t.Errorf("image fix = %q, want %q", code, want)
		}
	})

	t.Run("At most five snippets", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("<html><body>")
		for i := 0; i < 8; i++ {
			fmt.Fprintf(&sb, `<img src="img%d.png">`, i)
		}
		sb.WriteString(`<img src="ok.png" alt="fine"></body></html>`)

		code, count := findFix(t, sb.String(), "https://example.com", RecMissingImageAlt)
		if count != 1 {
			t.Fatalf("got %d image fixes, want 1", count)
		}
		lines := strings.Split(code, "\n")
		if len(lines) != maxImageFixes {
			t.Fatalf("got %d snippets, want %d", len(lines), maxImageFixes)
		}
		for i, line := range lines {
			if !strings.Contains(line, fmt.Sprintf(`src="img%d.png"`, i)) {
				t.Errorf("snippet %d = %q", i, line)
			}
		}
	})
}

func TestOpenGraphFix(t *testing.T) {
	t.Run("All tags present", func(t *testing.T) {
		htmlStr := `<html><head>
			<meta property="og:title" content="t">
			<meta property="og:description" content="d">
			<meta property="og:url" content="https://example.com">
			<meta property="og:type" content="website">
			<meta property="og:image" content="https://example.com/i.png">
		</head></html>`
		if _, count := findFix(t, htmlStr, "https://example.com", RecMissingOpenGraph); count != 0 {
			t.Errorf("got %d Open Graph fixes, want 0", count)
		}
	})

	t.Run("Missing tags use extracted fallbacks", func(t *testing.T) {
		htmlStr := `<html><head>
			<title>My Page</title>
			<meta name="description" content="About my page">
			<meta property="og:type" content="article">
		</head></html>`
		code, count := findFix(t, htmlStr, "https://example.com/p", RecMissingOpenGraph)
		if count != 1 {
			t.Fatalf("got %d Open Graph fixes, want 1", count)
		}
		wantLines := []string{
			`<meta property="og:title" content="My Page">`,
			`<meta property="og:description" content="About my page">`,
			`<meta property="og:url" content="https://example.com/p">`,
			fmt.Sprintf(`<meta property="og:image" content="%s">`, placeholderOGImage),
		}
		if code != strings.Join(wantLines, "\n") {
			t.Errorf("Open Graph fix =\n%s\nwant\n%s", code, strings.Join(wantLines, "\n"))
		}
	})

	t.Run("Placeholders without extracted values", func(t *testing.T) {
		code, _ := findFix(t, "<html></html>", "https://example.com", RecMissingOpenGraph)
		for _, want := range []string{placeholderOGTitle, placeholderDescription, `content="website"`} {
			if !strings.Contains(code, want) {
				t.Errorf("Open Graph fix missing %q:\n%s", want, code)
			}
		}
	})
}
