package service

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"pagepulse/internal/model"
	"pagepulse/internal/util/analyzer"
)

var headingTags = [...]string{"h1", "h2", "h3", "h4", "h5", "h6"}

func newReport() *model.AuditReport {
	headings := make(map[string][]string, len(headingTags))
	for _, tag := range headingTags {
		headings[tag] = []string{}
	}
	return &model.AuditReport{
		MetaTags:        []model.MetaTag{},
		H1:              headings["h1"],
		Headings:        headings,
		ImgAlts:         []model.ImageAlt{},
		OGTags:          map[string]string{},
		AuditScore:      maxScore,
		Recommendations: []string{},
	}
}

// extractSignals fills the on-page signal fields of report from doc.
func extractSignals(doc *goquery.Document, report *model.AuditReport) error {
	extractTitle(doc, report)
	extractMeta(doc, report)
	extractCanonical(doc, report)
	if err := extractHeadings(doc, report); err != nil {
		return err
	}
	extractImages(doc, report)
	return nil
}

// first <title> wins, even when empty
func extractTitle(doc *goquery.Document, report *model.AuditReport) {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return
	}
	title := sel.Text()
	report.Title = &title
}

func extractMeta(doc *goquery.Document, report *model.AuditReport) {
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, hasContent := s.Attr("content")
		if !hasContent {
			return
		}

		isDescription := analyzer.AttrEquals(s, "name", "description") ||
			analyzer.AttrEquals(s, "property", "og:description")
		if isDescription && report.MetaDescription == nil {
			desc := content
			report.MetaDescription = &desc
		}

		if property, ok := s.Attr("property"); ok {
			property = strings.ToLower(strings.TrimSpace(property))
			if strings.HasPrefix(property, "og:") {
				report.OGTags[property] = content
			}
		}

		if name, ok := s.Attr("name"); ok {
			report.MetaTags = append(report.MetaTags, model.MetaTag{Name: name, Content: content})
		}

		if report.Viewport == nil && analyzer.AttrEquals(s, "name", "viewport") {
			viewport := content
			report.Viewport = &viewport
		}
	})
}

func extractCanonical(doc *goquery.Document, report *model.AuditReport) {
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !analyzer.HasRelToken(s, "canonical") {
			return true
		}
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		report.Canonical = &href
		return false
	})
}

func extractHeadings(doc *goquery.Document, report *model.AuditReport) error {
	for _, tag := range headingTags {
		var renderErr error
		doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			inner, err := s.Html()
			if err != nil {
				renderErr = fmt.Errorf("render %s: %w", tag, err)
				return false
			}
			report.Headings[tag] = append(report.Headings[tag], inner)
			return true
		})
		if renderErr != nil {
			return renderErr
		}
	}
	report.H1 = report.Headings["h1"]
	return nil
}

func extractImages(doc *goquery.Document, report *model.AuditReport) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		var img model.ImageAlt
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			img.Alt = &alt
		}
		if src, ok := s.Attr("src"); ok {
			img.Src = &src
		}
		report.ImgAlts = append(report.ImgAlts, img)
	})
}
