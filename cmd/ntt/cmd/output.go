package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printSiteTable(sites []domain.SiteStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("KEY\tURL\tKEYWORDS\tSNAPSHOT\tLAST CHECK\tNEW\n")
	for i := range sites {
		s := &sites[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Key,
			truncate(s.URL, 48),
			truncate(strings.Join(s.Keywords, ","), 32),
			snapshotCell(s),
			lastStatusCell(s.LastResult),
			lastNewCell(s.LastResult),
		)
	}
	return tw.finish()
}

// snapshotCell renders "-" for a site that has never been seeded, which is
// not the same as a seeded site with zero notices.
func snapshotCell(s *domain.SiteStatus) string {
	if !s.Initialized {
		return "-"
	}
	return fmt.Sprintf("%d", s.SnapshotSize)
}

func lastStatusCell(r *domain.SiteResult) string {
	if r == nil {
		return "-"
	}
	return string(r.Status)
}

func lastNewCell(r *domain.SiteResult) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d", r.ItemsNew)
}

func printSiteDetail(s *domain.SiteStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Key:\t%s\n", s.Key)
	tw.writef("URL:\t%s\n", s.URL)
	tw.writef("Base URL:\t%s\n", s.BaseURL)
	tw.writef("Keywords:\t%s\n", strings.Join(s.Keywords, ", "))
	if s.Selector != "" {
		tw.writef("Selector:\t%s\n", s.Selector)
	}
	tw.writef("Initialized:\t%v\n", s.Initialized)
	tw.writef("Snapshot:\t%d notices\n", s.SnapshotSize)
	if r := s.LastResult; r != nil {
		tw.writef("Last check:\t%s\n", r.Status)
		if r.Status == domain.CheckFailed {
			tw.writef("Last error:\t%s\n", r.Error)
		} else {
			tw.writef("Last found:\t%d\n", r.ItemsFound)
			tw.writef("Last new:\t%d\n", r.ItemsNew)
		}
	}
	return tw.finish()
}

func printPassesTable(passes []domain.PassSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTRIGGER\tSTARTED\tDURATION\tSITES\tNEW\tFAILED\n")
	for i := range passes {
		p := &passes[i]
		tw.writef("%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			shortID(p.ID),
			p.Trigger,
			p.StartedAt.Format("2006-01-02 15:04:05"),
			passDuration(p),
			len(p.Sites),
			p.NewTotal(),
			p.FailedCount(),
		)
	}
	return tw.finish()
}

func printPassDetail(p *domain.PassSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Pass:\t%s\n", p.ID)
	tw.writef("Trigger:\t%s\n", p.Trigger)
	tw.writef("Started:\t%s\n", p.StartedAt.Format("2006-01-02 15:04:05"))
	tw.writef("Duration:\t%s\n", passDuration(p))
	tw.writef("New:\t%d\n", p.NewTotal())
	tw.writef("Failed:\t%d\n", p.FailedCount())
	if len(p.Sites) > 0 {
		tw.writef("\nSITE\tSTATUS\tFOUND\tNEW\tBATCHES\tSNAPSHOT\tERROR\n")
		for i := range p.Sites {
			r := &p.Sites[i]
			tw.writef("%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				r.SiteKey,
				r.Status,
				r.ItemsFound,
				r.ItemsNew,
				r.BatchesSent,
				r.SnapshotSize,
				truncate(r.Error, 40),
			)
		}
	}
	return tw.finish()
}

func passDuration(p *domain.PassSummary) time.Duration {
	return p.CompletedAt.Sub(p.StartedAt).Round(time.Millisecond)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
