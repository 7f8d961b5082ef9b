// Package dialogue implements the IVR state machine that turns transcribed
// caller utterances into a confirmed complaint, one question at a time.
//
// The Engine holds only read-only dependencies. All mutable state lives in
// the Session passed to Process, and callers must not process the same
// Session concurrently.
package dialogue

import (
	"time"

	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/extract"
	"github.com/ent0n29/samvad/internal/location"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

// LocationResolver resolves a spoken address.
type LocationResolver interface {
	Resolve(text string) location.Descriptor
}

// IDGenerator mints complaint ids from a two-letter category code.
type IDGenerator interface {
	Next(code string, now time.Time) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now for transcript timestamps and complaint ids.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for transition traces.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine runs one state transition per utterance.
type Engine struct {
	tax      *taxonomy.Taxonomy
	resolver LocationResolver
	ids      IDGenerator
	now      func() time.Time
	logger   *zap.Logger
}

// New builds an Engine.
func New(tax *taxonomy.Taxonomy, resolver LocationResolver, ids IDGenerator, opts ...Option) *Engine {
	e := &Engine{
		tax:      tax,
		resolver: resolver,
		ids:      ids,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSession returns a session in the greeting state.
func (e *Engine) NewSession(id string) *Session {
	now := e.now().UTC()
	return &Session{
		ID:         id,
		State:      StateGreeting,
		Language:   taxonomy.English,
		Transcript: []Turn{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Process applies one utterance to s and returns the response for the caller.
// It never fails: unrecognized input re-asks the current question.
func (e *Engine) Process(utterance string, s *Session) Response {
	now := e.now().UTC()
	s.Language = extract.DetectLanguage(utterance)
	s.Transcript = append(s.Transcript, Turn{Role: RoleUser, Text: utterance, Timestamp: now})

	from := s.State
	if !from.Valid() {
		e.logger.Warn("unknown session state, asking for the issue again",
			zap.String("session_id", s.ID), zap.String("state", string(from)))
	}
	next, reply := e.transition(utterance, s, now)
	s.State = next
	message := reply.in(s.Language)
	s.Transcript = append(s.Transcript, Turn{Role: RoleAssistant, Text: message, Timestamp: now})
	s.UpdatedAt = now

	e.logger.Debug("ivr transition",
		zap.String("session_id", s.ID),
		zap.String("state", string(from)),
		zap.String("next_state", string(next)),
		zap.String("language", string(s.Language)),
		zap.String("category", string(s.Data.Category)),
	)

	return Response{
		SessionID:         s.ID,
		State:             next,
		Language:          s.Language,
		Message:           message,
		IsComplete:        next == StateComplete,
		CollectedData:     s.Data,
		NextExpectedInput: next.ExpectedInput(),
	}
}

func (e *Engine) transition(utterance string, s *Session, now time.Time) (State, prompt) {
	switch s.State {
	case StateGreeting:
		if cat, _, ok := extract.DetectCategory(e.tax, utterance); ok {
			return e.recordIssue(s, cat, utterance)
		}
		return StateAskIssue, promptWelcome

	case StateAskIssue:
		if cat, _, ok := extract.DetectCategory(e.tax, utterance); ok {
			return e.recordIssue(s, cat, utterance)
		}
		s.Data.Category = taxonomy.Other
		s.Data.Description = utterance
		return StateAskLocation, promptIssueNoted

	case StateAskSubCategory:
		s.Data.SubCategory = utterance
		return StateAskLocation, promptAskLocation

	case StateAskLocation:
		loc := e.resolver.Resolve(utterance)
		s.Data.LocationArea = loc.Area
		if loc.Ward != "" {
			s.Data.Ward = loc.Ward
		}
		if loc.Zone != "" {
			s.Data.Zone = loc.Zone
		}
		if loc.Resolved() {
			return StateAskPhone, promptAskPhone
		}
		return StateAskLandmark, promptAskLandmark

	case StateAskLandmark:
		s.Data.Landmark = utterance
		return StateAskPhone, promptAskPhone

	case StateAskPhone:
		phone, ok := extract.ExtractPhone(utterance)
		if !ok {
			return StateAskPhone, promptInvalidPhone
		}
		s.Data.Phone = phone
		return StateConfirm, confirmationPrompt(s.Data)

	case StateConfirm:
		switch classifyAnswer(utterance) {
		case answerYes:
			id := e.ids.Next(e.tax.Code(s.Data.Category), now)
			s.Data.ComplaintID = id
			return StateComplete, registeredPrompt(id)
		case answerNo:
			s.Data = CollectedData{}
			return StateAskIssue, promptCancelled
		default:
			return StateConfirm, promptConfirmUnclear
		}

	case StateComplete:
		return StateComplete, promptAlreadyRegistered
	}

	// Unknown state: restart the issue question without a stale id.
	s.Data.ComplaintID = ""
	return StateAskIssue, promptDescribe
}

func (e *Engine) recordIssue(s *Session, cat taxonomy.Category, utterance string) (State, prompt) {
	s.Data.Category = cat
	s.Data.Description = utterance
	return StateAskSubCategory, prompt{
		taxonomy.English: e.tax.Question(cat, taxonomy.English),
		taxonomy.Hindi:   e.tax.Question(cat, taxonomy.Hindi),
	}
}
