package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
	"pagepulse/internal/model"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted values for the output flag.
var Formats = []string{FormatHuman, FormatJSON, FormatYAML}

// Display writes the report for pageURL to w in the requested format.
func Display(w io.Writer, pageURL string, report *model.AuditReport, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, report)
	case FormatYAML:
		return displayYAML(w, report)
	case FormatHuman, "":
		displayHuman(w, pageURL, report)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func displayJSON(w io.Writer, report *model.AuditReport) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, report *model.AuditReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func displayHuman(w io.Writer, pageURL string, report *model.AuditReport) {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	white.Fprintf(w, "SEO AUDIT: %s\n", pageURL)
	scoreColor(report.AuditScore).Fprintf(w, "SCORE: %d/100\n\n", report.AuditScore)

	if report.Error != "" {
		color.New(color.FgRed, color.Bold).Fprintf(w, "ERROR: %s\n\n", report.Error)
		return
	}

	cyan.Fprintln(w, "PAGE SIGNALS:")
	fmt.Fprintf(w, "   Title:        %s\n", orMissing(report.Title))
	fmt.Fprintf(w, "   Description:  %s\n", orMissing(report.MetaDescription))
	fmt.Fprintf(w, "   Canonical:    %s\n", orMissing(report.Canonical))
	fmt.Fprintf(w, "   Viewport:     %s\n", orMissing(report.Viewport))
	fmt.Fprintf(w, "   H1:           %s\n", headingSummary(report.H1))
	fmt.Fprintf(w, "   Images:       %d (%d without alt)\n", len(report.ImgAlts), missingAlt(report.ImgAlts))
	fmt.Fprintf(w, "   Open Graph:   %s\n\n", ogSummary(report.OGTags))

	if len(report.Recommendations) > 0 {
		yellow.Fprintln(w, "RECOMMENDATIONS:")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(w, "   %d. %s\n", i+1, rec)
		}
		fmt.Fprintln(w)
	} else {
		green.Fprintln(w, "No issues found.")
		fmt.Fprintln(w)
	}

	if len(report.FixCode) > 0 {
		green.Fprintln(w, "SUGGESTED FIXES:")
		for _, fix := range report.FixCode {
			fmt.Fprintf(w, "   %s\n", fix.Issue)
			for _, line := range strings.Split(fix.Code, "\n") {
				fmt.Fprintf(w, "      %s\n", color.GreenString(line))
			}
		}
		fmt.Fprintln(w)
	}

	if pro := report.ProAnalysis; pro != nil {
		cyan.Fprintln(w, "PRO ANALYSIS:")
		fmt.Fprintf(w, "   Fetch time:       %d ms (%s)\n", pro.FetchTimeMs, pro.LoadRating)
		fmt.Fprintf(w, "   Word count:       %d\n", pro.WordCount)
		fmt.Fprintf(w, "   Links:            %d internal, %d external\n", pro.InternalLinks, pro.ExternalLinks)
		fmt.Fprintf(w, "   Structured data:  %s\n\n", yesNo(pro.HasStructuredData))
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func orMissing(s *string) string {
	if s == nil {
		return color.RedString("missing")
	}
	return *s
}

func headingSummary(h1 []string) string {
	if len(h1) == 0 {
		return color.RedString("missing")
	}
	if len(h1) == 1 {
		return h1[0]
	}
	return fmt.Sprintf("%s (+%d more)", h1[0], len(h1)-1)
}

func missingAlt(images []model.ImageAlt) int {
	n := 0
	for _, img := range images {
		if img.Alt == nil {
			n++
		}
	}
	return n
}

func ogSummary(tags map[string]string) string {
	if len(tags) == 0 {
		return color.RedString("none")
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
