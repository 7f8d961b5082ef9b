// Package complaint persists confirmed IVR complaints and supports the
// follow-up workflow: lookup, listing, status updates and statistics.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("complaint not found")
	ErrDuplicate     = errors.New("complaint already exists")
	ErrInvalidStatus = errors.New("invalid complaint status")
)

// Status is the handling status of a complaint.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusRejected   Status = "rejected"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusRejected}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// SourceIVR marks complaints registered through the voice flow.
const SourceIVR = "ivr"

// Record is a stored complaint.
type Record struct {
	ComplaintID     string    `json:"complaint_id"`
	Category        string    `json:"category"`
	SubCategory     string    `json:"sub_category"`
	SubCategoryCode string    `json:"sub_category_code"`
	Description     string    `json:"description"`
	Area            string    `json:"area"`
	Landmark        string    `json:"landmark"`
	Ward            string    `json:"ward"`
	Zone            string    `json:"zone"`
	Phone           string    `json:"phone"`
	Language        string    `json:"language"`
	Priority        string    `json:"priority"`
	Status          Status    `json:"status"`
	Source          string    `json:"source"`
	SessionID       string    `json:"session_id"`
	AssignedTo      string    `json:"assigned_to,omitempty"`
	ResolutionNotes string    `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Filter narrows List. Zero fields match everything; Limit <= 0 means 100.
type Filter struct {
	Status   Status
	Category string
	Zone     string
	Limit    int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

func (f Filter) match(r Record) bool {
	return (f.Status == "" || r.Status == f.Status) &&
		(f.Category == "" || strings.EqualFold(r.Category, f.Category)) &&
		(f.Zone == "" || strings.EqualFold(r.Zone, f.Zone))
}

// Stats are complaint counts.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	ByZone     map[string]int `json:"by_zone"`
}

func newStats() Stats {
	s := Stats{
		ByStatus:   make(map[string]int, len(Statuses)),
		ByCategory: make(map[string]int),
		ByZone:     make(map[string]int),
	}
	for _, st := range Statuses {
		s.ByStatus[string(st)] = 0
	}
	return s
}

// Store persists complaint records.
type Store interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes string) (Record, error)
	Assign(ctx context.Context, id, assignee string) (Record, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

func normalize(r Record, now time.Time) Record {
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Source == "" {
		r.Source = SourceIVR
	}
	if r.Priority == "" {
		r.Priority = "normal"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r
}
