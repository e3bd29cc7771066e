package engine

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/donaldgifford/notice-tracker/internal/notify"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// defaultBatchLimit caps one message well below the 4096-character hard
// limit of the Telegram Bot API.
const defaultBatchLimit = 3500

// BuildBatches renders new notices as HTML messages ready for dispatch.
// Notices are sorted by title then URL so batches come out the same for the
// same input, every message opens with the site header, and no message
// exceeds limit characters. A notice too long to share a message gets one
// to itself, over the limit if it must be.
func BuildBatches(siteKey string, notices []domain.Notice, limit int) []string {
	if len(notices) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	sorted := make([]domain.Notice, len(notices))
	copy(sorted, notices)
	domain.SortNotices(sorted)

	header := "🚨 <b>" + strings.ToUpper(siteKey) + " Update(s)</b>"
	base := utf8.RuneCountInString(header) + 2

	var (
		batches []string
		lines   []string
		size    = base
	)
	flush := func() {
		if len(lines) == 0 {
			return
		}
		batches = append(batches, header+"\n\n"+strings.Join(lines, "\n"))
		lines = nil
		size = base
	}

	for _, n := range sorted {
		line := fmt.Sprintf("<a href=\"%s\">%s</a>",
			html.EscapeString(n.URL), html.EscapeString(n.Title))
		lineLen := utf8.RuneCountInString(line)

		sep := 0
		if len(lines) > 0 {
			sep = 1 // joining newline
		}
		if len(lines) > 0 && size+sep+lineLen > limit {
			flush()
			sep = 0
		}
		lines = append(lines, line)
		size += sep + lineLen
	}
	flush()

	return batches
}

// DispatchNotices sends the rendered batches for a site. Every batch is
// attempted even when an earlier one fails; the returned count is how many
// were delivered and the error joins the per-batch failures.
func DispatchNotices(
	ctx context.Context,
	n notify.Notifier,
	siteKey string,
	notices []domain.Notice,
	limit int,
	log *slog.Logger,
) (int, error) {
	batches := BuildBatches(siteKey, notices, limit)

	var (
		sent int
		errs []error
	)
	for i, msg := range batches {
		if err := n.Send(ctx, msg); err != nil {
			log.Error("batch dispatch failed",
				"site", siteKey,
				"batch", i+1,
				"batches", len(batches),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}
