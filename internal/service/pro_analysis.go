package service

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"pagepulse/internal/model"
	"pagepulse/internal/util/analyzer"
)

const (
	LoadFast    = "Fast"
	LoadAverage = "Average"
	LoadSlow    = "Slow"
)

func buildProAnalysis(doc *goquery.Document, rawHTML, pageURL string, fetchTimeMs int64) (*model.ProAnalysis, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	internal, external := countLinks(doc, base)

	return &model.ProAnalysis{
		FetchTimeMs:       fetchTimeMs,
		LoadRating:        loadRating(fetchTimeMs),
		WordCount:         analyzer.CountWords(rawHTML),
		InternalLinks:     internal,
		ExternalLinks:     external,
		HasStructuredData: hasStructuredData(doc),
	}, nil
}

func loadRating(fetchTimeMs int64) string {
	switch {
	case fetchTimeMs < 1000:
		return LoadFast
	case fetchTimeMs < 3000:
		return LoadAverage
	default:
		return LoadSlow
	}
}

func countLinks(doc *goquery.Document, base *url.URL) (internal, external int) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if analyzer.IsInternalLink(href, base) {
			internal++
		} else {
			external++
		}
	})
	return
}

func hasStructuredData(doc *goquery.Document) bool {
	found := false
	doc.Find("script[type]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if analyzer.AttrEquals(s, "type", "application/ld+json") {
			found = true
			return false
		}
		return true
	})
	return found
}
