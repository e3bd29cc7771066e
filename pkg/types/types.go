// Package domain defines the core business types for the notice tracker.
package domain

import (
	"cmp"
	"slices"
	"time"
)

// Notice represents one extracted notice link: the anchor text after
// whitespace normalization and the href resolved to an absolute URL.
// Notices are compared by value; two notices are the same notice iff
// both fields are equal.
type Notice struct {
	Title string `json:"title" db:"title"`
	URL   string `json:"url"   db:"url"`
}

// Compare orders notices by title, then URL.
func (n Notice) Compare(o Notice) int {
	if c := cmp.Compare(n.Title, o.Title); c != 0 {
		return c
	}
	return cmp.Compare(n.URL, o.URL)
}

// NoticeSet is the set of notices observed for a site.
type NoticeSet map[Notice]struct{}

// NewNoticeSet builds a set from the given notices.
func NewNoticeSet(notices ...Notice) NoticeSet {
	s := make(NoticeSet, len(notices))
	for _, n := range notices {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts a notice into the set.
func (s NoticeSet) Add(n Notice) {
	s[n] = struct{}{}
}

// Has reports whether the set contains the notice.
func (s NoticeSet) Has(n Notice) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of notices in the set.
func (s NoticeSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s NoticeSet) Clone() NoticeSet {
	c := make(NoticeSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Union returns a new set containing every notice present in either set.
// Neither receiver nor argument is modified.
func (s NoticeSet) Union(other NoticeSet) NoticeSet {
	u := make(NoticeSet, len(s)+len(other))
	for n := range s {
		u[n] = struct{}{}
	}
	for n := range other {
		u[n] = struct{}{}
	}
	return u
}

// Diff returns the notices present in the receiver but absent from other.
func (s NoticeSet) Diff(other NoticeSet) []Notice {
	var out []Notice
	for n := range s {
		if !other.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Sorted returns the set's notices ordered by title, then URL.
func (s NoticeSet) Sorted() []Notice {
	out := make([]Notice, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	SortNotices(out)
	return out
}

// SortNotices orders a slice of notices by title, then URL, in place.
func SortNotices(notices []Notice) {
	slices.SortFunc(notices, Notice.Compare)
}

// Site represents one monitored notice page.
type Site struct {
	Key      string   `json:"key"`
	URL      string   `json:"url"`
	BaseURL  string   `json:"base_url"`
	Keywords []string `json:"keywords"`
	// Selector optionally narrows link extraction to part of the page.
	// Empty means the whole document.
	Selector string `json:"selector,omitempty"`
}

// CheckTrigger identifies what started a check pass.
type CheckTrigger string

// Check trigger constants.
const (
	TriggerScheduled CheckTrigger = "scheduled"
	TriggerManual    CheckTrigger = "manual"
	TriggerCLI       CheckTrigger = "cli"
)

// CheckStatus is the outcome of checking a single site.
type CheckStatus string

// Check status constants.
const (
	CheckOK     CheckStatus = "ok"     // checked, zero or more new notices dispatched
	CheckSeeded CheckStatus = "seeded" // first observation, baseline stored silently
	CheckFailed CheckStatus = "failed" // fetch or parse failed, state untouched
)

// SiteResult records the outcome of one site within a check pass.
type SiteResult struct {
	SiteKey      string      `json:"site_key"`
	Status       CheckStatus `json:"status"`
	Error        string      `json:"error,omitempty"`
	ItemsFound   int         `json:"items_found"`
	ItemsNew     int         `json:"items_new"`
	BatchesSent  int         `json:"batches_sent"`
	SnapshotSize int         `json:"snapshot_size"`
	ElapsedMS    int64       `json:"elapsed_ms"`
}

// PassSummary records one full check pass across the site registry.
type PassSummary struct {
	ID          string       `json:"id"`
	Trigger     CheckTrigger `json:"trigger"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	Sites       []SiteResult `json:"sites"`
}

// NewTotal returns the number of new notices found across all sites.
func (p *PassSummary) NewTotal() int {
	total := 0
	for _, r := range p.Sites {
		total += r.ItemsNew
	}
	return total
}

// FailedCount returns how many sites failed during the pass.
func (p *PassSummary) FailedCount() int {
	failed := 0
	for _, r := range p.Sites {
		if r.Status == CheckFailed {
			failed++
		}
	}
	return failed
}

// SiteStatus is the API view of a monitored site and its stored state.
type SiteStatus struct {
	Site
	Initialized  bool        `json:"initialized"`
	SnapshotSize int         `json:"snapshot_size"`
	LastResult   *SiteResult `json:"last_result,omitempty"`
}
