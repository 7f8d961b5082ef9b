package dialogue

import (
	"encoding/json"
	"time"

	"github.com/ent0n29/samvad/internal/taxonomy"
)

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CollectedData is the complaint record accumulated over a call. An empty
// string means the field has not been collected yet.
type CollectedData struct {
	Category     taxonomy.Category
	SubCategory  string
	Description  string
	LocationArea string
	Landmark     string
	Phone        string
	Ward         string
	Zone         string
	ComplaintID  string
}

type collectedDataJSON struct {
	Category     *string `json:"category"`
	SubCategory  *string `json:"sub_category"`
	Description  *string `json:"description"`
	LocationArea *string `json:"location_area"`
	Landmark     *string `json:"landmark"`
	Phone        *string `json:"phone"`
	Ward         *string `json:"ward"`
	Zone         *string `json:"zone"`
	ComplaintID  *string `json:"complaint_id"`
}

// MarshalJSON always emits the full key set, with null for fields that have
// not been collected.
func (d CollectedData) MarshalJSON() ([]byte, error) {
	return json.Marshal(collectedDataJSON{
		Category:     optional(string(d.Category)),
		SubCategory:  optional(d.SubCategory),
		Description:  optional(d.Description),
		LocationArea: optional(d.LocationArea),
		Landmark:     optional(d.Landmark),
		Phone:        optional(d.Phone),
		Ward:         optional(d.Ward),
		Zone:         optional(d.Zone),
		ComplaintID:  optional(d.ComplaintID),
	})
}

// UnmarshalJSON accepts the MarshalJSON shape; null and missing keys decode to
// empty strings.
func (d *CollectedData) UnmarshalJSON(b []byte) error {
	var raw collectedDataJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = CollectedData{
		Category:     taxonomy.Category(deref(raw.Category)),
		SubCategory:  deref(raw.SubCategory),
		Description:  deref(raw.Description),
		LocationArea: deref(raw.LocationArea),
		Landmark:     deref(raw.Landmark),
		Phone:        deref(raw.Phone),
		Ward:         deref(raw.Ward),
		Zone:         deref(raw.Zone),
		ComplaintID:  deref(raw.ComplaintID),
	}
	return nil
}

// Empty reports whether nothing has been collected.
func (d CollectedData) Empty() bool {
	return d == CollectedData{}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Session is the mutable per-caller state. The engine assumes exclusive
// access to a Session for the duration of Process.
type Session struct {
	ID         string            `json:"session_id"`
	State      State             `json:"state"`
	Language   taxonomy.Language `json:"language"`
	Data       CollectedData     `json:"collected_data"`
	Transcript []Turn            `json:"transcript"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone returns a copy that shares no mutable memory with s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Transcript = append([]Turn(nil), s.Transcript...)
	return &out
}

// Response is the per-turn result handed to the transport layer.
type Response struct {
	SessionID         string            `json:"session_id"`
	State             State             `json:"state"`
	Language          taxonomy.Language `json:"language"`
	Message           string            `json:"message"`
	IsComplete        bool              `json:"is_complete"`
	CollectedData     CollectedData     `json:"collected_data"`
	NextExpectedInput string            `json:"next_expected_input"`
}
