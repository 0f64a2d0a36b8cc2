package service

import "pagepulse/internal/model"

const maxScore = 100

const (
	RecMissingTitle       = "Missing <title> tag"
	RecMissingDescription = "Missing meta description"
	RecMissingViewport    = "Missing mobile viewport meta tag"
	RecMissingCanonical   = "Missing canonical link tag"
	RecMissingH1          = "No <h1> detected"
	RecMissingImageAlt    = "Some images missing alt text"
)

type scoreCheck struct {
	recommendation string
	penalty        int
	failed         func(r *model.AuditReport) bool
}

// scoreChecks run in this order; recommendations keep it.
var scoreChecks = []scoreCheck{
	{RecMissingTitle, 15, func(r *model.AuditReport) bool { return isBlank(r.Title) }},
	{RecMissingDescription, 10, func(r *model.AuditReport) bool { return isBlank(r.MetaDescription) }},
	{RecMissingViewport, 5, func(r *model.AuditReport) bool { return isBlank(r.Viewport) }},
	{RecMissingCanonical, 5, func(r *model.AuditReport) bool { return isBlank(r.Canonical) }},
	{RecMissingH1, 10, func(r *model.AuditReport) bool { return len(r.H1) == 0 }},
	{RecMissingImageAlt, 5, func(r *model.AuditReport) bool { return len(imagesMissingAlt(r)) > 0 }},
}

func score(report *model.AuditReport) {
	total := maxScore
	for _, check := range scoreChecks {
		if check.failed(report) {
			total -= check.penalty
			report.Recommendations = append(report.Recommendations, check.recommendation)
		}
	}
	report.AuditScore = max(0, total)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func imagesMissingAlt(report *model.AuditReport) []model.ImageAlt {
	var missing []model.ImageAlt
	for _, img := range report.ImgAlts {
		if isBlank(img.Alt) {
			missing = append(missing, img)
		}
	}
	return missing
}
