package service

import (
	"fmt"
	"html"
	"strings"

	"pagepulse/internal/model"
	"pagepulse/internal/util/analyzer"
)

const (
	RecMissingOpenGraph = "Missing Open Graph tags"

	maxImageFixes = 5

	placeholderDescription = "Learn what makes our product different, explore the features our customers " +
		"rely on every day, and find the right plan for your team in just a few minutes."

	placeholderH1      = "<h1>Your Main Page Heading Goes Here</h1>"
	placeholderAlt     = "Describe this image for screen readers and search engines"
	placeholderOGTitle = "Your Page Title"
	placeholderOGImage = "https://example.com/og-image.png"
	viewportFix        = `<meta name="viewport" content="width=device-width, initial-scale=1">`
	defaultOGType      = "website"
)

var requiredOGTags = [...]string{"og:title", "og:description", "og:url", "og:type", "og:image"}

// buildFixCode returns one replacement snippet per triggered recommendation plus an
// Open Graph block when any required og: property is missing.
func buildFixCode(report *model.AuditReport, pageURL string) []model.FixCode {
	fixes := make([]model.FixCode, 0, len(report.Recommendations)+1)

	for _, rec := range report.Recommendations {
		var code string
		switch rec {
		case RecMissingTitle:
			code = fmt.Sprintf("<title>%s — Your Page Title | Brand Name</title>",
				html.EscapeString(analyzer.HostnameWithoutWWW(pageURL)))
		case RecMissingDescription:
			code = fmt.Sprintf(`<meta name="description" content="%s">`, placeholderDescription)
		case RecMissingViewport:
			code = viewportFix
		case RecMissingCanonical:
			code = fmt.Sprintf(`<link rel="canonical" href="%s">`, html.EscapeString(pageURL))
		case RecMissingH1:
			code = placeholderH1
		case RecMissingImageAlt:
			code = imageAltFix(report)
		default:
			continue
		}
		fixes = append(fixes, model.FixCode{Issue: rec, Code: code})
	}

	if og := openGraphFix(report, pageURL); og != "" {
		fixes = append(fixes, model.FixCode{Issue: RecMissingOpenGraph, Code: og})
	}

	return fixes
}

func imageAltFix(report *model.AuditReport) string {
	missing := imagesMissingAlt(report)
	if len(missing) > maxImageFixes {
		missing = missing[:maxImageFixes]
	}

	lines := make([]string, 0, len(missing))
	for _, img := range missing {
		src := ""
		if img.Src != nil {
			src = *img.Src
		}
		lines = append(lines, fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(src), placeholderAlt))
	}
	return strings.Join(lines, "\n")
}

func openGraphFix(report *model.AuditReport, pageURL string) string {
	var lines []string
	for _, property := range requiredOGTags {
		if _, ok := report.OGTags[property]; ok {
			continue
		}
		lines = append(lines, fmt.Sprintf(`<meta property="%s" content="%s">`,
			property, html.EscapeString(ogFallback(report, property, pageURL))))
	}
	return strings.Join(lines, "\n")
}

func ogFallback(report *model.AuditReport, property, pageURL string) string {
	switch property {
	case "og:title":
		if !isBlank(report.Title) {
			return *report.Title
		}
		return placeholderOGTitle
	case "og:description":
		if !isBlank(report.MetaDescription) {
			return *report.MetaDescription
		}
		return placeholderDescription
	case "og:url":
		return pageURL
	case "og:type":
		return defaultOGType
	default:
		return placeholderOGImage
	}
}
