package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ascendant/internal/cache"
	"ascendant/internal/logging"
	"ascendant/internal/model"
	"ascendant/internal/render"
	"ascendant/internal/reveal"
	"ascendant/internal/static"
	"ascendant/internal/viewport"
	"ascendant/internal/wizard"
)

// Client event types
const (
	EventSelect  = "select"
	EventNudge   = "nudge"
	EventSubmit  = "submit"
	EventReveal  = "reveal"
	EventVisible = "visible"
	EventScroll  = "scroll"
)

// MsgEffects frames a list of effects pushed to the client
const MsgEffects = "effects"

var ErrUnknownEvent = errors.New("unknown event type")

// Event is one input reported by the page client
type Event struct {
	Type     string           `json:"type"`
	Target   string           `json:"target,omitempty"` // element the event happened on
	Key      string           `json:"key,omitempty"`    // nudge only
	Viewport viewport.Rect    `json:"viewport"`         // visible only
	Entries  []viewport.Entry `json:"entries,omitempty"`
	ScrollY  float64          `json:"scrollY,omitempty"`
}

// Result is the synchronous answer to an event. Handled tells the client the
// event was consumed. Deferred stages are left for the client to schedule when
// the session has no live connection to push them on.
type Result struct {
	Effects  []render.Effect `json:"effects"`
	Deferred []Deferred      `json:"deferred,omitempty"`
	Handled  bool            `json:"handled"`
}

// Deferred is a batch of effects the client applies AfterMs after the event
type Deferred struct {
	AfterMs int64           `json:"afterMs"`
	Effects []render.Effect `json:"effects"`
}

// Snapshot brings a client page in line with its session
type Snapshot struct {
	SessionID string          `json:"sessionId"`
	Token     string          `json:"token,omitempty"`
	Observe   []string        `json:"observe"` // elements to report visibility for
	Effects   []render.Effect `json:"effects"`
}

// SessionService runs the page components for every visitor session
type SessionService struct {
	sessions    cache.SessionCache
	questions   []model.Question
	layout      *static.Layout
	tokens      *TokenService
	gate        reveal.Gate
	animator    viewport.Animator
	sched       reveal.Scheduler
	broadcaster Broadcaster
	locks       *keyedMutex
	logger      *zap.Logger
	now         func() time.Time
}

// NewSessionService creates a session service over an already loaded question set
func NewSessionService(
	sessions cache.SessionCache,
	questions *model.QuestionSet,
	layout *static.Layout,
	tokens *TokenService,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		questions: questions.Questions,
		layout:    layout,
		tokens:    tokens,
		gate:      reveal.Default(),
		animator:  viewport.Default(),
		sched:     reveal.TimerScheduler{},
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// SetBroadcaster sets where deferred reveal stages are pushed
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetScheduler replaces the timer used for deferred reveal stages
func (s *SessionService) SetScheduler(sched reveal.Scheduler) {
	s.sched = sched
}

// Tokens returns the token service guarding the session API
func (s *SessionService) Tokens() *TokenService {
	return s.tokens
}

// page is a session's document rebuilt from the layout, with a recorder
// on top that reports what each event changes.
type page struct {
	doc     *render.Document
	rec     *render.Recorder
	targets  []string
	wizard   bool
	deferred []Deferred
}

// render rebuilds the client's page for sess. A session without wizard state
// receives the freshly built one.
func (s *SessionService) render(sess *model.Session) *page {
	doc := s.layout.Mount()
	p := &page{doc: doc, rec: render.NewRecorder(doc)}

	if built, ok := wizard.Build(p.rec, s.questions); ok {
		p.wizard = true
		if sess.Wizard.Initialized() {
			render.Apply(p.rec, wizard.Sync(sess.Wizard))
		} else {
			sess.Wizard = built
		}
	}

	if effects, ok := s.gate.Prepare(doc, sess.Opened); ok {
		render.Apply(p.rec, effects)
	}

	p.targets = s.animator.Targets(doc)
	render.Apply(p.rec, s.animator.Prepare(p.targets, sess.HasAnimated))
	return p
}

func (s *SessionService) snapshot(sess *model.Session, p *page) *Snapshot {
	observe := make([]string, 0, len(p.targets))
	for _, id := range p.targets {
		if !sess.HasAnimated(id) {
			observe = append(observe, id)
		}
	}
	return &Snapshot{
		SessionID: sess.ID,
		Observe:   observe,
		Effects:   p.rec.Drain(),
	}
}

// Start opens a session for a new page load and returns everything the client
// needs to render it
func (s *SessionService) Start(ctx context.Context, debug bool) (*Snapshot, error) {
	now := s.now()
	sess := &model.Session{
		ID:        uuid.New().String(),
		Debug:     debug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	p := s.render(sess)
	if !p.wizard {
		s.logger.Warn("wizard not initialised", zap.Int("questions", len(s.questions)))
	}

	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	snap := s.snapshot(sess, p)
	snap.Token = token
	s.sessionLogger(sess).Info("session started", zap.Int("effects", len(snap.Effects)))
	return snap, nil
}

// Bootstrap re-renders an existing session, for reloads and reconnects
func (s *SessionService) Bootstrap(ctx context.Context, sessionID string) (*Snapshot, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.snapshot(sess, s.render(sess)), nil
}

// Dispatch applies one client event to a session. Events of one session are
// applied strictly in the order Dispatch is called.
func (s *SessionService) Dispatch(ctx context.Context, sessionID string, ev Event) (*Result, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	// parallax depends on nothing but the layout and the offset
	if ev.Type == EventScroll {
		return s.parallax(ev), nil
	}

	p := s.render(sess)
	p.rec.Drain()

	handled, changed, err := s.apply(sess, p, ev)
	if err != nil {
		return nil, err
	}

	res := &Result{Effects: p.rec.Drain(), Deferred: p.deferred, Handled: handled}
	if res.Effects == nil {
		res.Effects = []render.Effect{}
	}

	fields := []zap.Field{
		zap.String("type", ev.Type),
		zap.String("target", ev.Target),
		zap.Bool("handled", handled),
		zap.Int("effects", len(res.Effects)),
	}
	if sess.Debug {
		// debug sessions log every event whatever the process level
		s.sessionLogger(sess).Info("event", fields...)
	} else {
		s.sessionLogger(sess).Debug("event", fields...)
	}

	if changed {
		sess.UpdatedAt = s.now()
		if err := s.sessions.Set(ctx, sess); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return res, nil
}

// apply runs ev against the rebuilt page. changed reports a session mutation
// that must be stored.
func (s *SessionService) apply(sess *model.Session, p *page, ev Event) (handled, changed bool, err error) {
	switch ev.Type {
	case EventSelect:
		qid, value, ok := wizard.ResolveOption(p.doc, ev.Target)
		if !ok || !p.wizard {
			return false, false, nil
		}
		return s.wizardEvent(sess, p, wizard.Select{QuestionID: qid, Value: value})

	case EventNudge:
		if _, ok := wizard.KeyDelta(ev.Key); !ok {
			return false, false, nil
		}
		qid, focused, ok := wizard.ResolveOption(p.doc, ev.Target)
		if !ok || !p.wizard {
			return false, false, nil
		}
		_, changed, err := s.wizardEvent(sess, p, wizard.Nudge{QuestionID: qid, Focused: focused, Key: ev.Key})
		return true, changed, err

	case EventSubmit:
		if !p.wizard {
			return false, false, nil
		}
		return s.wizardEvent(sess, p, wizard.Submit{})

	case EventReveal:
		stages := s.gate.Open(p.doc, sess.Opened, ev.Target)
		if stages == nil {
			return false, false, nil
		}
		sess.Opened = true
		id := sess.ID
		if s.broadcaster != nil && s.broadcaster.Connected(id) {
			render.Apply(p.rec, reveal.Play(s.sched, stages, func(effects []render.Effect) {
				s.push(id, effects)
			}))
			return true, true, nil
		}
		for _, st := range stages {
			if st.After <= 0 {
				render.Apply(p.rec, st.Effects)
				continue
			}
			p.deferred = append(p.deferred, Deferred{AfterMs: st.After.Milliseconds(), Effects: st.Effects})
		}
		return true, true, nil

	case EventVisible:
		effects, fired := s.animator.Observe(p.targets, ev.Entries, ev.Viewport, sess.HasAnimated)
		if len(fired) == 0 {
			return false, false, nil
		}
		render.Apply(p.rec, effects)
		sess.Animated = append(sess.Animated, fired...)
		return true, true, nil
	}
	return false, false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

func (s *SessionService) parallax(ev Event) *Result {
	if !s.layout.Has(viewport.BeamGlowID) {
		return &Result{Effects: []render.Effect{}}
	}
	return &Result{
		Effects: []render.Effect{viewport.Parallax(max(ev.ScrollY, 0))},
		Handled: true,
	}
}

func (s *SessionService) wizardEvent(sess *model.Session, p *page, ev wizard.Event) (handled, changed bool, err error) {
	ctrl := wizard.Restore(p.rec, sess.Wizard)
	effects := ctrl.Dispatch(ev)
	if len(effects) == 0 {
		return false, false, nil
	}
	sess.Wizard = ctrl.State()
	return true, true, nil
}

// push delivers a deferred reveal stage. A connection lost before the stage
// fires drops it; the client re-bootstraps on reconnect and the session already
// records the gate as opened.
func (s *SessionService) push(sessionID string, effects []render.Effect) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.SendToSession(sessionID, MsgEffects, effects)
}

func (s *SessionService) sessionLogger(sess *model.Session) *zap.Logger {
	return logging.Session(s.logger, sess.ID).With(zap.Bool("debug", sess.Debug))
}
