// Package sessions implements the Q&A session service: session lifecycle,
// question submission and moderation, and the notification boundary that
// feeds the realtime gateway. Persistence invariants (idempotent upvotes,
// no-op hide detection, duplicate id rejection) are delegated to the store's
// atomic per-document operations; the service itself holds no locks.
package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askfloor/backend/internal/models"
	"github.com/askfloor/backend/internal/ranking"
)

// SessionStore is the sessions collection contract used by the service.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	FindByIDWithPassword(ctx context.Context, id, password string) (*models.Session, error)
	List(ctx context.Context, accepting, visible bool) ([]models.Session, error)
	Insert(ctx context.Context, s *models.Session) error
	SetAcceptingQuestions(ctx context.Context, id string, accepting bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// QuestionStore is the questions collection contract used by the service.
type QuestionStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Question, error)
	Insert(ctx context.Context, q *models.Question) error
	AddUpvote(ctx context.Context, questionID, voterID string) (bool, error)
	SetHidden(ctx context.Context, questionID string, hidden bool) (bool, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

// Notifier receives a signal after every successful mutation. The realtime
// gateway implements it; the service stays free of transport concerns.
type Notifier interface {
	SessionUpdated(sessionID string)
	SessionRemoved(sessionID string)
}

type noopNotifier struct{}

func (noopNotifier) SessionUpdated(string) {}
func (noopNotifier) SessionRemoved(string) {}

// Service orchestrates session and question operations.
type Service struct {
	sessions  SessionStore
	questions QuestionStore
	notifier  Notifier
	logger    *zap.Logger
}

// NewService creates a session service. Until SetNotifier is called,
// notifications are dropped.
func NewService(sessions SessionStore, questions QuestionStore, logger *zap.Logger) *Service {
	return &Service{
		sessions:  sessions,
		questions: questions,
		notifier:  noopNotifier{},
		logger:    logger,
	}
}

// SetNotifier installs the mutation notification sink. Called once at wiring
// time, before the service handles traffic.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create persists a new session with a fresh admin password. The name
// defaults to the id. A taken id fails with ErrSessionExists.
func (s *Service) Create(ctx context.Context, id, name string) (*models.Session, error) {
	if name == "" {
		name = id
	}
	sess := &models.Session{
		ID:                   id,
		Name:                 name,
		IsAcceptingQuestions: true,
		IsVisible:            true,
		AdminPassword:        generateAdminPassword(),
	}
	if err := s.sessions.Insert(ctx, sess); err != nil {
		return nil, err
	}
	metricSessionsCreated.Inc()
	s.logger.Info("session created", zap.String("session_id", id))
	sess.Questions = []models.Question{}
	return sess, nil
}

// Get loads a session with its ranked question list. Without a password the
// public view is returned: admin password blanked, hidden questions dropped.
// With the correct password the full ranked list and the password are
// included. A wrong password is indistinguishable from a missing session.
func (s *Service) Get(ctx context.Context, id, password string) (*models.Session, error) {
	if password == "" {
		return s.PublicSnapshot(ctx, id)
	}
	sess, err := s.sessions.FindByIDWithPassword(ctx, id, password)
	if err != nil {
		return nil, err
	}
	qs, err := s.questions.ListBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Questions = ranking.Rank(qs)
	return sess, nil
}

// PublicSnapshot is the attendee-facing view of a session: hidden questions
// filtered out, admin password blanked.
func (s *Service) PublicSnapshot(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.AdminPassword = ""
	qs, err := s.questions.ListBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Questions = ranking.Visible(ranking.Rank(qs))
	return sess, nil
}

// AdminSnapshot is the moderator-facing view: the full ranked list, hidden
// questions included. The password is still blanked; moderators already hold
// it and broadcast payloads should not carry it.
func (s *Service) AdminSnapshot(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.AdminPassword = ""
	qs, err := s.questions.ListBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Questions = ranking.Rank(qs)
	return sess, nil
}

// CheckAdminPassword reports whether the password matches the session. Used
// by the realtime gateway to place joining clients in the admin tier.
func (s *Service) CheckAdminPassword(ctx context.Context, id, password string) bool {
	if password == "" {
		return false
	}
	_, err := s.sessions.FindByIDWithPassword(ctx, id, password)
	return err == nil
}

// ListVisible returns publicly listed sessions that accept questions, by name
// ascending.
func (s *Service) ListVisible(ctx context.Context) ([]models.Session, error) {
	return s.sessions.List(ctx, true, true)
}

// ListClosed returns publicly listed sessions that stopped accepting
// questions, by name ascending.
func (s *Service) ListClosed(ctx context.Context) ([]models.Session, error) {
	return s.sessions.List(ctx, false, true)
}

// AddQuestion validates the session and persists a new question. The
// accepting check and the insert are separate store calls; a close racing in
// between can let one question through, which is tolerated.
func (s *Service) AddQuestion(ctx context.Context, sessionID, text string) (*models.Question, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAcceptingQuestions {
		return nil, ErrSessionClosed
	}

	q := &models.Question{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		Created:   time.Now().UTC(),
		Upvotes:   []string{},
		Hidden:    false,
	}
	if err := s.questions.Insert(ctx, q); err != nil {
		return nil, err
	}
	metricQuestionsAsked.Inc()
	s.notifier.SessionUpdated(sessionID)
	return q, nil
}

// Upvote records voterID's vote on a question. Returns true on the first
// vote; a repeat vote is a no-op returning false and does not notify.
func (s *Service) Upvote(ctx context.Context, questionID, sessionID, voterID string) (bool, error) {
	added, err := s.questions.AddUpvote(ctx, questionID, voterID)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}
	metricUpvotesRecorded.Inc()
	s.notifier.SessionUpdated(sessionID)
	return true, nil
}

// Hide removes a question from the public view. Returns false without
// notifying when the question was already hidden or does not exist.
func (s *Service) Hide(ctx context.Context, questionID, sessionID string) (bool, error) {
	return s.setHidden(ctx, questionID, sessionID, true)
}

// Unhide restores a question to the public view. Returns false without
// notifying when nothing changed.
func (s *Service) Unhide(ctx context.Context, questionID, sessionID string) (bool, error) {
	return s.setHidden(ctx, questionID, sessionID, false)
}

func (s *Service) setHidden(ctx context.Context, questionID, sessionID string, hidden bool) (bool, error) {
	changed, err := s.questions.SetHidden(ctx, questionID, hidden)
	if err != nil {
		return false, err
	}
	if changed {
		s.notifier.SessionUpdated(sessionID)
	}
	return changed, nil
}

// Open lets the session accept questions again. Requires the admin password;
// idempotent at the data level but always succeeds and notifies when auth
// passes. Unlike hide/unhide, no-op transitions still broadcast.
func (s *Service) Open(ctx context.Context, id, password string) (*models.Session, error) {
	return s.setAccepting(ctx, id, password, true)
}

// Close stops the session from accepting questions. Same contract as Open.
func (s *Service) Close(ctx context.Context, id, password string) (*models.Session, error) {
	return s.setAccepting(ctx, id, password, false)
}

func (s *Service) setAccepting(ctx context.Context, id, password string, accepting bool) (*models.Session, error) {
	if _, err := s.sessions.FindByIDWithPassword(ctx, id, password); err != nil {
		return nil, err
	}
	if _, err := s.sessions.SetAcceptingQuestions(ctx, id, accepting); err != nil {
		return nil, err
	}
	s.notifier.SessionUpdated(id)
	return s.Get(ctx, id, password)
}

// Delete removes a session and cascades its questions first. The two store
// calls are not transactional; a crash in between leaves orphaned questions
// that no session references. On success the room receives a removal signal
// rather than a snapshot. Returns false when the session document was already
// gone.
func (s *Service) Delete(ctx context.Context, id, password string) (bool, error) {
	if _, err := s.sessions.FindByIDWithPassword(ctx, id, password); err != nil {
		return false, err
	}
	n, err := s.questions.DeleteBySession(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		metricSessionsDeleted.Inc()
		s.logger.Info("session deleted",
			zap.String("session_id", id),
			zap.Int64("questions_removed", n),
		)
		s.notifier.SessionRemoved(id)
	}
	return deleted, nil
}
