// Package filter derives a view over a user's job applications. It is pure:
// no storage, no clock of its own, no mutation of its input.
package filter

import (
	"strings"
	"time"

	"applytrack/internal/model"
)

// Recency buckets accepted by Criteria.Recency.
const (
	RecencyToday       = "today"
	RecencyWeek        = "week"
	RecencyMonth       = "month"
	RecencyThreeMonths = "3months"
)

// ValidRecency reports whether bucket names a known recency window.
func ValidRecency(bucket string) bool {
	switch bucket {
	case RecencyToday, RecencyWeek, RecencyMonth, RecencyThreeMonths:
		return true
	}
	return false
}

// Criteria holds the three independent filter inputs. The zero value matches
// every record.
type Criteria struct {
	Query   string
	Status  string
	Recency string
}

// WithQuery returns a copy of c with the free-text query replaced.
func (c Criteria) WithQuery(query string) Criteria {
	c.Query = query
	return c
}

// ToggleStatus sets the status filter, or clears it when status is already
// the active value.
func (c Criteria) ToggleStatus(status string) Criteria {
	if c.Status == status {
		c.Status = ""
	} else {
		c.Status = status
	}
	return c
}

// ToggleRecency sets the recency filter, or clears it when bucket is already
// the active value.
func (c Criteria) ToggleRecency(bucket string) Criteria {
	if c.Recency == bucket {
		c.Recency = ""
	} else {
		c.Recency = bucket
	}
	return c
}

// Empty reports whether c applies no filtering at all.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" && c.Status == "" && c.Recency == ""
}

// Apply evaluates all three predicates, ANDed, against jobs. Input order is
// preserved and the input slice is never modified. An unknown recency bucket
// is ignored rather than rejected, matching the laxity of the original view
// logic; callers that want strictness should check ValidRecency first.
func Apply(jobs []model.JobApplication, c Criteria, now time.Time) []model.JobApplication {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	recency := c.Recency
	if !ValidRecency(recency) {
		recency = ""
	}
	if query == "" && c.Status == "" && recency == "" {
		return jobs
	}

	out := make([]model.JobApplication, 0, len(jobs))
	for _, job := range jobs {
		if query != "" && !matchesQuery(job, query) {
			continue
		}
		if c.Status != "" && job.Status != c.Status {
			continue
		}
		if recency != "" && !matchesRecency(job, recency, now) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func matchesQuery(job model.JobApplication, query string) bool {
	return strings.Contains(strings.ToLower(job.JobTitle), query) ||
		strings.Contains(strings.ToLower(job.CompanyName), query) ||
		strings.Contains(strings.ToLower(job.Status), query)
}

// matchesRecency compares calendar days anchored to UTC midnight so a record
// applied "7 days ago" passes the week window regardless of time zone.
// Window cutoffs use calendar subtraction (AddDate), not fixed durations.
func matchesRecency(job model.JobApplication, bucket string, now time.Time) bool {
	if job.DateApplied == nil {
		return false
	}
	applied := truncateToDay(*job.DateApplied)
	today := truncateToDay(now)

	switch bucket {
	case RecencyToday:
		return applied.Equal(today)
	case RecencyWeek:
		return !applied.Before(today.AddDate(0, 0, -7))
	case RecencyMonth:
		return !applied.Before(today.AddDate(0, -1, 0))
	case RecencyThreeMonths:
		return !applied.Before(today.AddDate(0, -3, 0))
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
