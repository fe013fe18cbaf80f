package dialogue

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/omriShneor/schedule_bot/internal/calendar"
	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// Extractor turns free text into typed partial records.
type Extractor interface {
	Event(ctx context.Context, text string, today time.Time) extract.Fields
	Range(ctx context.Context, text string, today time.Time) extract.DateRange
	Target(ctx context.Context, text string, today time.Time) extract.Target
	Changes(ctx context.Context, text string, today time.Time) extract.Fields
}

// EventStore is the persistence collaborator.
type EventStore interface {
	EventFinder
	GetOrCreateUser(ctx context.Context, telegramID string) (int64, error)
	CreateEvent(ctx context.Context, event *database.Event) (*database.Event, error)
	UpdateEvent(ctx context.Context, userID, id int64, u database.EventUpdate) error
	DeleteEvents(ctx context.Context, userID int64, ids []int64) (int64, error)
}

// Translator renders reply texts and recognises button labels.
type Translator interface {
	T(locale, key string, data map[string]any) string
	Plural(locale, key string, count int, data map[string]any) string
	Matches(text, key string) bool
}

// Config tunes an Engine. Zero values fall back to defaults.
type Config struct {
	OracleTimeout time.Duration
	StoreTimeout  time.Duration
	Location      *time.Location
	Now           func() time.Time
}

// Engine drives the per-user dialogue. Handle never fails: every problem
// becomes a reply and a session transition.
type Engine struct {
	sessions  Store
	extractor Extractor
	events    EventStore
	tr        Translator
	cfg       Config
	logger    *zap.SugaredLogger
}

// NewEngine wires the dialogue collaborators together.
func NewEngine(sessions Store, extractor Extractor, events EventStore, tr Translator, cfg Config, logger *zap.SugaredLogger) *Engine {
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 15 * time.Second
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Engine{
		sessions:  sessions,
		extractor: extractor,
		events:    events,
		tr:        tr,
		cfg:       cfg,
		logger:    logger,
	}
}

// turn carries the state of handling one inbound message.
type turn struct {
	ctx     context.Context
	msg     Message
	text    string
	today   time.Time
	log     *zap.SugaredLogger
	replies []Reply
}

func (t *turn) say(text string, kb Keyboard) {
	t.replies = append(t.replies, Reply{Text: text, Keyboard: kb})
}

func (e *Engine) t(tn *turn, key string, data map[string]any) string {
	return e.tr.T(tn.msg.Locale, key, data)
}

// done closes a flow: it sends the outcome, then the main menu.
func (e *Engine) done(tn *turn, text string) Session {
	tn.say(text, KeepKeyboard)
	tn.say(e.t(tn, i18n.WhatNext, nil), MainMenu)
	return Session{}
}

// Handle processes one message and returns the replies to send.
func (e *Engine) Handle(ctx context.Context, msg Message) []Reply {
	tn := &turn{
		ctx:   ctx,
		msg:   msg,
		text:  strings.TrimSpace(msg.Text),
		today: timeutil.Today(e.cfg.Now(), e.cfg.Location),
		log:   e.logger.With("turn", uuid.NewString(), "user", msg.UserID),
	}

	// Two rapid messages from one user may interleave between Get and Put;
	// the transport delivers them in order but handles them concurrently.
	sess := e.sessions.Get(msg.UserID)
	before := sess.State

	next := e.dispatch(tn, sess)
	e.sessions.Put(msg.UserID, next)

	tn.log.Debugw("turn handled", "from", before.String(), "to", next.State.String(), "replies", len(tn.replies))
	return tn.replies
}

func (e *Engine) dispatch(tn *turn, sess Session) Session {
	switch tn.text {
	case "/start":
		tn.say(e.t(tn, i18n.Greeting, nil), MainMenu)
		return Session{}
	case "/cancel":
		tn.say(e.t(tn, i18n.Cancelled, nil), MainMenu)
		return Session{}
	}

	switch sess.State {
	case ConfirmingDelete:
		return e.confirmDelete(tn, sess)
	case ConfirmingEdit:
		return e.confirmEdit(tn, sess)
	}

	if next, ok := e.menu(tn); ok {
		return next
	}

	switch sess.State {
	case CollectingEvent:
		return e.collectEvent(tn, sess)
	case CollectingPeriod:
		return e.viewPeriod(tn)
	case CollectingDeleteTarget:
		return e.findForDelete(tn)
	case CollectingEditTarget:
		return e.findForEdit(tn)
	}
	if sess.State.IsStep() {
		return e.step(tn, sess)
	}

	tn.say(e.t(tn, i18n.ChooseAction, nil), MainMenu)
	return Session{}
}

// menu handles buttons and commands that start a flow from any
// non-confirmation state.
func (e *Engine) menu(tn *turn) (Session, bool) {
	switch {
	case tn.text == "/step":
		tn.say(e.t(tn, i18n.StepTitle, nil), ExitMenu)
		return Session{State: StepTitle}, true
	case tn.text == "/export":
		return e.export(tn), true
	case e.tr.Matches(tn.text, i18n.ButtonExit):
		tn.say(e.t(tn, i18n.Cancelled, nil), MainMenu)
		return Session{}, true
	case e.tr.Matches(tn.text, i18n.ButtonAdd):
		tn.say(e.t(tn, i18n.AddPrompt, nil), ExitMenu)
		return Session{State: CollectingEvent}, true
	case e.tr.Matches(tn.text, i18n.ButtonView):
		tn.say(e.t(tn, i18n.ViewPrompt, nil), RemoveKeyboard)
		return Session{State: CollectingPeriod}, true
	case e.tr.Matches(tn.text, i18n.ButtonDelete):
		tn.say(e.t(tn, i18n.DeletePrompt, nil), RemoveKeyboard)
		return Session{State: CollectingDeleteTarget}, true
	case e.tr.Matches(tn.text, i18n.ButtonEdit):
		tn.say(e.t(tn, i18n.EditPrompt, nil), RemoveKeyboard)
		return Session{State: CollectingEditTarget}, true
	}
	return Session{}, false
}

func (e *Engine) oracleCtx(tn *turn) (context.Context, context.CancelFunc) {
	return context.WithTimeout(tn.ctx, e.cfg.OracleTimeout)
}

func (e *Engine) storeCtx(tn *turn) (context.Context, context.CancelFunc) {
	return context.WithTimeout(tn.ctx, e.cfg.StoreTimeout)
}

// owner resolves the internal user id, creating the row on first contact.
func (e *Engine) owner(tn *turn) (int64, error) {
	ctx, cancel := e.storeCtx(tn)
	defer cancel()
	return e.events.GetOrCreateUser(ctx, strconv.FormatInt(tn.msg.UserID, 10))
}

// collectEvent merges this turn's extraction into the saved partial and
// commits once title and start are known.
func (e *Engine) collectEvent(tn *turn, sess Session) Session {
	ctx, cancel := e.oracleCtx(tn)
	fields := e.extractor.Event(ctx, tn.text, tn.today)
	cancel()

	merged, missing := Merge(fromFields(fields), sess.Partial)
	if len(missing) > 0 {
		tn.say(e.missingPrompt(tn.msg.Locale, missing, merged), ExitMenu)
		return Session{State: CollectingEvent, Partial: merged}
	}

	created, err := e.commit(tn, merged)
	if err != nil {
		tn.log.Errorw("failed to save event", "error", err)
		tn.say(e.t(tn, i18n.SaveFailed, nil), ExitMenu)
		return Session{State: CollectingEvent, Partial: merged}
	}

	return e.done(tn, e.t(tn, i18n.EventAdded, nil)+"\n\n"+e.eventBlock(tn.msg.Locale, *created, created.StartTime))
}

// commit stores a complete partial. User lookup and insert are separate
// statements; a failure between them leaves only the user row behind.
func (e *Engine) commit(tn *turn, p PartialEvent) (*database.Event, error) {
	if p.Title == nil || p.Start == nil {
		return nil, errors.New("event is incomplete")
	}

	userID, err := e.owner(tn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.storeCtx(tn)
	defer cancel()
	return e.events.CreateEvent(ctx, &database.Event{
		UserID:      userID,
		Title:       *p.Title,
		Description: p.Description,
		StartTime:   *p.Start,
		EndTime:     p.End,
		Place:       p.Place,
		IsWeekly:    p.IsWeekly,
	})
}

func (e *Engine) viewPeriod(tn *turn) Session {
	ctx, cancel := e.oracleCtx(tn)
	r := e.extractor.Range(ctx, tn.text, tn.today)
	cancel()

	period, ok := NewPeriod(r)
	if !ok {
		return e.done(tn, e.t(tn, i18n.DateNotRecognized, nil))
	}

	userID, err := e.owner(tn)
	if err != nil {
		tn.log.Errorw("failed to resolve user", "error", err)
		return e.done(tn, e.t(tn, i18n.LoadFailed, nil))
	}

	sctx, scancel := e.storeCtx(tn)
	occurrences, err := ListPeriod(sctx, e.events, userID, period)
	scancel()
	if err != nil {
		tn.log.Errorw("failed to list events", "error", err)
		return e.done(tn, e.t(tn, i18n.LoadFailed, nil))
	}

	if len(occurrences) == 0 {
		return e.done(tn, e.periodHeader(tn.msg.Locale, period, true))
	}

	blocks := make([]string, 0, len(occurrences)+1)
	blocks = append(blocks, e.periodHeader(tn.msg.Locale, period, false))
	for _, o := range occurrences {
		blocks = append(blocks, e.eventBlock(tn.msg.Locale, o.Event, o.Start))
	}
	return e.done(tn, strings.Join(blocks, "\n\n"))
}

func (e *Engine) findForDelete(tn *turn) Session {
	ctx, cancel := e.oracleCtx(tn)
	target := e.extractor.Target(ctx, tn.text, tn.today)
	cancel()

	if target.StartDate == nil {
		return e.done(tn, e.t(tn, i18n.DeleteDateMissing, nil))
	}

	found, err := e.resolve(tn, target, ForDelete)
	if errors.Is(err, ErrNotFound) {
		return e.done(tn, e.t(tn, i18n.DeleteNotFound, map[string]any{"Date": target.StartDate.Format(displayDate)}))
	}
	if err != nil {
		tn.log.Errorw("failed to find events to delete", "error", err)
		return e.done(tn, e.t(tn, i18n.LookupFailed, nil))
	}

	ids := make([]int64, 0, len(found))
	for _, ev := range found {
		ids = append(ids, ev.ID)
	}

	tn.say(e.eventList(tn.msg.Locale, found)+"\n\n"+e.t(tn, i18n.DeleteConfirm, nil), ConfirmMenu)
	return Session{State: ConfirmingDelete, Pending: &PendingMutation{EventIDs: ids}}
}

func (e *Engine) confirmDelete(tn *turn, sess Session) Session {
	yes, no := e.answer(tn.text)
	switch {
	case no:
		tn.say(e.t(tn, i18n.DeleteCancelled, nil), MainMenu)
		return Session{}
	case !yes:
		tn.say(e.t(tn, i18n.ConfirmChoose, nil), ConfirmMenu)
		return sess
	}

	if sess.Pending == nil || len(sess.Pending.EventIDs) == 0 {
		return e.done(tn, e.t(tn, i18n.DeleteFailed, nil))
	}

	userID, err := e.owner(tn)
	if err != nil {
		tn.log.Errorw("failed to resolve user", "error", err)
		return e.done(tn, e.t(tn, i18n.DeleteFailed, nil))
	}

	ctx, cancel := e.storeCtx(tn)
	n, err := e.events.DeleteEvents(ctx, userID, sess.Pending.EventIDs)
	cancel()
	if err != nil {
		tn.log.Errorw("failed to delete events", "ids", sess.Pending.EventIDs, "error", err)
		return e.done(tn, e.t(tn, i18n.DeleteFailed, nil))
	}

	tn.log.Infow("events deleted", "count", n)
	return e.done(tn, e.tr.Plural(tn.msg.Locale, i18n.DeleteDone, int(n), nil))
}

func (e *Engine) findForEdit(tn *turn) Session {
	var changes extract.Fields
	var target extract.Target

	ctx, cancel := e.oracleCtx(tn)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		changes = e.extractor.Changes(gctx, tn.text, tn.today)
		return nil
	})
	g.Go(func() error {
		target = e.extractor.Target(gctx, tn.text, tn.today)
		return nil
	})
	_ = g.Wait()
	cancel()

	if changes.IsEmpty() {
		return e.done(tn, e.t(tn, i18n.EditNothing, nil))
	}

	found, err := e.resolve(tn, target, ForEdit)
	if errors.Is(err, ErrNotFound) {
		return e.done(tn, e.t(tn, i18n.EditNotFound, nil))
	}
	if err != nil {
		tn.log.Errorw("failed to find event to edit", "error", err)
		return e.done(tn, e.t(tn, i18n.LookupFailed, nil))
	}

	event := found[0]
	diffs, payload, ok := Diff(event, changes)
	if !ok {
		return e.done(tn, e.t(tn, i18n.EditNothing, nil))
	}

	tn.say(e.t(tn, i18n.EditConfirm, map[string]any{
		"Title":   event.Title,
		"Time":    timeutil.FormatClock(event.StartTime),
		"Details": e.diffText(tn.msg.Locale, diffs),
	}), ConfirmMenu)
	return Session{State: ConfirmingEdit, Pending: &PendingMutation{EventID: event.ID, Payload: payload}}
}

func (e *Engine) confirmEdit(tn *turn, sess Session) Session {
	yes, no := e.answer(tn.text)
	switch {
	case no:
		tn.say(e.t(tn, i18n.EditCancelled, nil), MainMenu)
		return Session{}
	case !yes:
		tn.say(e.t(tn, i18n.ConfirmChoose, nil), ConfirmMenu)
		return sess
	}

	if sess.Pending == nil || sess.Pending.Payload.IsEmpty() {
		return e.done(tn, e.t(tn, i18n.EditNothing, nil))
	}

	userID, err := e.owner(tn)
	if err != nil {
		tn.log.Errorw("failed to resolve user", "error", err)
		return e.done(tn, e.t(tn, i18n.EditFailed, nil))
	}

	ctx, cancel := e.storeCtx(tn)
	err = e.events.UpdateEvent(ctx, userID, sess.Pending.EventID, sess.Pending.Payload)
	cancel()
	if err != nil {
		tn.log.Errorw("failed to update event", "event_id", sess.Pending.EventID, "error", err)
		return e.done(tn, e.t(tn, i18n.EditFailed, nil))
	}

	tn.log.Infow("event updated", "event_id", sess.Pending.EventID)
	return e.done(tn, e.t(tn, i18n.EditDone, nil))
}

func (e *Engine) resolve(tn *turn, target extract.Target, purpose Purpose) ([]database.Event, error) {
	userID, err := e.owner(tn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.storeCtx(tn)
	defer cancel()
	return Resolve(ctx, e.events, userID, target, purpose)
}

func (e *Engine) export(tn *turn) Session {
	userID, err := e.owner(tn)
	if err != nil {
		tn.log.Errorw("failed to resolve user", "error", err)
		return e.done(tn, e.t(tn, i18n.ExportFailed, nil))
	}

	ctx, cancel := e.storeCtx(tn)
	events, err := e.events.ListEvents(ctx, database.EventFilter{UserID: userID})
	cancel()
	if err != nil {
		tn.log.Errorw("failed to list events for export", "error", err)
		return e.done(tn, e.t(tn, i18n.ExportFailed, nil))
	}
	if len(events) == 0 {
		return e.done(tn, e.t(tn, i18n.ExportEmpty, nil))
	}

	doc := calendar.Export(events, e.cfg.Location, e.cfg.Now())
	tn.replies = append(tn.replies, Reply{
		Text:     e.t(tn, i18n.ExportCaption, nil),
		Keyboard: MainMenu,
		Attachment: &Attachment{
			Filename: calendar.Filename,
			MIME:     calendar.MIMEType,
			Data:     []byte(doc),
		},
	})
	return Session{}
}

var (
	affirmative = map[string]bool{"да": true, "yes": true}
	negative    = map[string]bool{"нет": true, "no": true}
)

// answer classifies a confirmation reply.
func (e *Engine) answer(text string) (yes, no bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	yes = e.tr.Matches(text, i18n.ButtonYes) || affirmative[word]
	no = e.tr.Matches(text, i18n.ButtonNo) || negative[word]
	return yes, no
}
