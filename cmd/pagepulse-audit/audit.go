package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"pagepulse/internal/formatter"
	"pagepulse/internal/service"
)

type auditOptions struct {
	pro       bool
	output    string
	timeout   time.Duration
	userAgent string
}

func newAuditCmd() *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit URL",
		Short: "Audit a single page",
		Example: `  pagepulse-audit audit https://example.com
  pagepulse-audit audit https://example.com --pro -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pro, "pro", false, "Include fix snippets and page metrics")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatter.FormatHuman,
		"Output format ("+strings.Join(formatter.Formats, "|")+")")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", service.DefaultFetchTimeout, "Page fetch timeout")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", service.DefaultUserAgent, "User-Agent sent when fetching")

	return cmd
}

func runAudit(cmd *cobra.Command, pageURL string, opts *auditOptions) error {
	if !slices.Contains(formatter.Formats, opts.output) {
		return fmt.Errorf("unknown output format %q (want one of %s)", opts.output, strings.Join(formatter.Formats, ", "))
	}

	auditor := service.NewAuditor(service.NewHTTPFetcher(service.FetcherOptions{
		Timeout:   opts.timeout,
		UserAgent: opts.userAgent,
	}))

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Fetching " + pageURL + "..."
	if opts.output == formatter.FormatHuman {
		s.Start()
	}

	report, err := auditor.Audit(cmd.Context(), pageURL, opts.pro)
	s.Stop()

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			return fmt.Errorf("invalid URL %q: must start with http:// or https://", pageURL)
		case errors.Is(err, service.ErrPageUnavailable):
			return fmt.Errorf("unable to fetch page: %w", err)
		default:
			return err
		}
	}

	if opts.output == formatter.FormatHuman {
		color.New(color.FgGreen).Fprintln(cmd.ErrOrStderr(), "✓ Audit complete")
	}
	return formatter.Display(cmd.OutOrStdout(), pageURL, report, opts.output)
}
