package complaint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/extract"
	"github.com/ent0n29/samvad/internal/reliability"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

// Recorder turns completed dialogue sessions into stored complaints.
type Recorder struct {
	store Store
	tax   *taxonomy.Taxonomy
	now   func() time.Time
}

func NewRecorder(store Store, tax *taxonomy.Taxonomy) *Recorder {
	return &Recorder{store: store, tax: tax, now: time.Now}
}

// Record saves the complaint for a session in StateComplete. Transient store
// failures are retried; a duplicate id is not.
func (r *Recorder) Record(ctx context.Context, s *dialogue.Session) error {
	if s == nil || s.State != dialogue.StateComplete || s.Data.ComplaintID == "" {
		return errors.New("complaint: session is not complete")
	}
	rec := r.Build(s)
	return reliability.Retry(ctx, 3, 50*time.Millisecond, 500*time.Millisecond, func(ctx context.Context) error {
		err := r.store.Save(ctx, rec)
		if errors.Is(err, ErrDuplicate) {
			return reliability.Permanent(fmt.Errorf("%w: %s", err, rec.ComplaintID))
		}
		return err
	})
}

// Build maps a finished session onto a complaint record. The sub-category
// code comes from the caller's sub-category answer, falling back to the
// original description.
func (r *Recorder) Build(s *dialogue.Session) Record {
	d := s.Data
	code, ok := extract.DetectSubCategory(r.tax, d.Category, d.SubCategory)
	if !ok {
		code, _ = extract.DetectSubCategory(r.tax, d.Category, d.Description)
	}
	now := r.now().UTC()
	return Record{
		ComplaintID:     d.ComplaintID,
		Category:        string(d.Category),
		SubCategory:     d.SubCategory,
		SubCategoryCode: code,
		Description:     d.Description,
		Area:            d.LocationArea,
		Landmark:        d.Landmark,
		Ward:            d.Ward,
		Zone:            d.Zone,
		Phone:           d.Phone,
		Language:        string(s.Language),
		Priority:        string(r.tax.Priority(d.Category, code)),
		Status:          StatusPending,
		Source:          SourceIVR,
		SessionID:       s.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
