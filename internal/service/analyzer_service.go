package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"pagepulse/internal/log"
	"pagepulse/internal/metrics"
	"pagepulse/internal/model"
	"pagepulse/internal/util"
)

// Auditor fetches a page and analyzes it. It keeps no state between calls.
type Auditor struct {
	fetcher PageFetcher
}

func NewAuditor(fetcher PageFetcher) *Auditor {
	return &Auditor{fetcher: fetcher}
}

// Audit validates targetURL, fetches it once and returns the report.
// Errors wrap ErrInvalidURL or ErrPageUnavailable; analysis problems never
// surface here, they degrade the report instead.
func (a *Auditor) Audit(ctx context.Context, targetURL string, enhanced bool) (*model.AuditReport, error) {
	mode := metrics.Mode(enhanced)

	if !util.IsValidURL(targetURL) {
		metrics.AuditsTotal.WithLabelValues(metrics.OutcomeInvalidURL, mode).Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, targetURL)
	}

	rawHTML, fetchTimeMs, err := a.fetcher.FetchPage(ctx, targetURL)
	if err != nil {
		metrics.AuditsTotal.WithLabelValues(metrics.OutcomeUnavailable, mode).Inc()
		return nil, err
	}

	report := Analyze(rawHTML, targetURL, enhanced, fetchTimeMs)

	outcome := metrics.OutcomeOK
	if report.Error != "" {
		outcome = metrics.OutcomeAnalysisFail
	}
	metrics.AuditsTotal.WithLabelValues(outcome, mode).Inc()
	metrics.AuditScore.Observe(float64(report.AuditScore))

	log.Logger.Info("page audited",
		zap.String("url", targetURL),
		zap.Bool("enhanced", enhanced),
		zap.Int("score", report.AuditScore),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	return report, nil
}

// Analyze extracts SEO signals from rawHTML, scores them and, when enhanced is set,
// adds fix snippets and content metrics. It never fails: any error or panic yields
// a report with score 0 and Error set.
func Analyze(rawHTML, pageURL string, enhanced bool, fetchTimeMs int64) (report *model.AuditReport) {
	defer func() {
		if r := recover(); r != nil {
			log.Logger.Error("panic during analysis",
				zap.String("url", pageURL),
				zap.Any("error", r),
			)
			report = failedReport()
		}
	}()

	report, err := analyze(rawHTML, pageURL, enhanced, fetchTimeMs)
	if err != nil {
		log.Logger.Error("analysis failed",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return failedReport()
	}
	return report
}

func analyze(rawHTML, pageURL string, enhanced bool, fetchTimeMs int64) (*model.AuditReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	report := newReport()
	if err := extractSignals(doc, report); err != nil {
		return nil, err
	}
	score(report)

	if !enhanced {
		return report, nil
	}

	report.FixCode = buildFixCode(report, pageURL)
	report.ProAnalysis, err = buildProAnalysis(doc, rawHTML, pageURL, fetchTimeMs)
	if err != nil {
		return nil, fmt.Errorf("pro analysis: %w", err)
	}
	return report, nil
}

func failedReport() *model.AuditReport {
	report := newReport()
	report.AuditScore = 0
	report.Error = analysisErrorMessage
	return report
}
