package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/adapters/memory"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/gesture"
	"github.com/aretw0/eventdeck/pkg/overlay"
	"github.com/aretw0/eventdeck/pkg/pin"
	"github.com/aretw0/eventdeck/pkg/session"
	"github.com/aretw0/eventdeck/pkg/toggle"
)

// DefaultRecordTimeout bounds a single tally write.
const DefaultRecordTimeout = 2 * time.Second

// Feeds maps each mode to the cards it shows.
type Feeds map[domain.FeedMode][]domain.Card

// Deck runs the swipe stack: one live gesture controller for the card on
// top, the pin tokens of the saves so far, the fresh-data banner and the
// feed mode toggle. Like the components it owns, it is driven from the
// goroutine that ticks its scheduler.
type Deck struct {
	sched  *frame.Scheduler
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	gestureCfg    gesture.Config
	pinCfg        pin.Config
	bannerMessage string
	recordTimeout time.Duration

	sessions  *session.Manager
	sessionID string
	tally     *domain.Tally
	unflushed []decisionRecord // decisions the store has not accepted yet, oldest first

	feeds   Feeds
	mode    domain.FeedMode
	cards   []domain.Card
	index   int
	pending []domain.Card

	ctrl      *gesture.Controller
	presenter overlay.Presenter
	pins      *pin.Sequencer
	banner    *toggle.Banner
	toggle    *toggle.ModeToggle
}

// Option configures a Deck.
type Option func(*Deck)

// WithLogger sets the deck logger. Owned components log through it.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deck) {
		d.logger = logger
	}
}

// WithLifecycleHooks sets hooks shared by every owned component.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Deck) {
		d.hooks = hooks
	}
}

// WithGestureConfig overrides gesture.DefaultConfig.
func WithGestureConfig(cfg gesture.Config) Option {
	return func(d *Deck) {
		d.gestureCfg = cfg
	}
}

// WithPinConfig overrides pin.DefaultConfig.
func WithPinConfig(cfg pin.Config) Option {
	return func(d *Deck) {
		d.pinCfg = cfg
	}
}

// WithSession records decisions in the given manager under sessionID.
// Without it the deck keeps an in-memory tally under a random ID.
func WithSession(m *session.Manager, sessionID string) Option {
	return func(d *Deck) {
		d.sessions = m
		d.sessionID = sessionID
	}
}

// WithMode sets the initial feed mode.
func WithMode(mode domain.FeedMode) Option {
	return func(d *Deck) {
		d.mode = mode
	}
}

// WithBannerMessage overrides the fresh-data banner text.
func WithBannerMessage(msg string) Option {
	return func(d *Deck) {
		d.bannerMessage = msg
	}
}

// WithRecordTimeout bounds each tally write.
func WithRecordTimeout(d time.Duration) Option {
	return func(dk *Deck) {
		if d > 0 {
			dk.recordTimeout = d
		}
	}
}

// NewDeck loads (or starts) the session tally, restores a pin for every
// prior save and deals the first card of the initial mode.
func NewDeck(ctx context.Context, feeds Feeds, sched *frame.Scheduler, opts ...Option) (*Deck, error) {
	d := &Deck{
		sched:         sched,
		logger:        logging.NewNop(),
		gestureCfg:    gesture.DefaultConfig(),
		pinCfg:        pin.DefaultConfig(),
		recordTimeout: DefaultRecordTimeout,
		feeds:         feeds,
		mode:          domain.FeedModeEvents,
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.mode.Valid() {
		return nil, fmt.Errorf("unknown feed mode %q", d.mode)
	}
	if err := d.gestureCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gesture config: %w", err)
	}
	if d.sessions == nil {
		d.sessions = session.NewManager(memory.NewStore(), session.WithLogger(d.logger), session.WithClock(sched))
	}
	if d.sessionID == "" {
		d.sessionID = uuid.NewString()
	}
	d.logger = d.logger.With("session_id", d.sessionID)

	tally, err := d.sessions.LoadOrStart(ctx, d.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	d.tally = tally

	d.pins, err = pin.NewSequencer(d.pinCfg, sched, pin.WithLogger(d.logger), pin.WithLifecycleHooks(d.hooks))
	if err != nil {
		return nil, err
	}
	for i := range tally.Saved {
		if _, err := d.pins.Spawn(i, false); err != nil {
			return nil, fmt.Errorf("failed to restore pin %d: %w", i, err)
		}
	}

	d.banner = toggle.NewBanner(sched,
		toggle.WithMessage(d.bannerMessage),
		toggle.WithOnPress(d.applyPending),
	)
	d.toggle = toggle.NewModeToggle(d.mode, d.switchMode, sched)
	d.presenter = overlay.NewPresenter(d.gestureCfg.Threshold)
	d.presenter.Threshold = d.gestureCfg.Classifier()

	d.deal(d.feeds[d.mode])
	d.logger.Info("deck ready", "mode", d.mode, "cards", len(d.cards), "restored_pins", len(tally.Saved))
	return d, nil
}

// Mode returns the feed mode shown.
func (d *Deck) Mode() domain.FeedMode { return d.mode }

// SessionID returns the session decisions are recorded under.
func (d *Deck) SessionID() string { return d.sessionID }

// Tally returns a copy of the session tally.
func (d *Deck) Tally() *domain.Tally { return d.tally.Snapshot() }

// Current returns the card on top of the stack.
func (d *Deck) Current() (domain.Card, bool) {
	if d.index >= len(d.cards) {
		return domain.Card{}, false
	}
	return d.cards[d.index], true
}

// Controller returns the live controller, or nil once the deck is exhausted.
func (d *Deck) Controller() *gesture.Controller { return d.ctrl }

// Pins returns the pin sequencer of the user's card.
func (d *Deck) Pins() *pin.Sequencer { return d.pins }

// Banner returns the fresh-data banner.
func (d *Deck) Banner() *toggle.Banner { return d.banner }

// Toggle returns the feed mode toggle.
func (d *Deck) Toggle() *toggle.ModeToggle { return d.toggle }

// PointerDown forwards to the live controller.
func (d *Deck) PointerDown(s domain.DragSample) error {
	if d.ctrl == nil {
		return domain.ErrDeckExhausted
	}
	return d.ctrl.PointerDown(s)
}

// PointerMove forwards to the live controller.
func (d *Deck) PointerMove(s domain.DragSample) error {
	if d.ctrl == nil {
		return domain.ErrDeckExhausted
	}
	return d.ctrl.PointerMove(s)
}

// PointerUp forwards to the live controller.
func (d *Deck) PointerUp(s domain.DragSample) error {
	if d.ctrl == nil {
		return domain.ErrDeckExhausted
	}
	return d.ctrl.PointerUp(s)
}

// PointerCancel forwards to the live controller.
func (d *Deck) PointerCancel() error {
	if d.ctrl == nil {
		return domain.ErrDeckExhausted
	}
	return d.ctrl.PointerCancel()
}

// SelectMode reports a tap on the mode toggle.
func (d *Deck) SelectMode(mode domain.FeedMode) error {
	return d.toggle.Select(mode)
}

// Offer hands the deck a refreshed feed for the current mode. When it holds
// cards not in the stack, the cards are kept pending and the banner shows.
// It returns the number of unseen cards.
func (d *Deck) Offer(cards []domain.Card) int {
	known := make(map[string]struct{}, len(d.cards))
	for _, c := range d.cards {
		known[c.ID] = struct{}{}
	}
	fresh := 0
	for _, c := range cards {
		if _, ok := known[c.ID]; !ok {
			fresh++
		}
	}
	if fresh == 0 {
		return 0
	}
	d.pending = append([]domain.Card(nil), cards...)
	d.banner.SetVisible(true)
	d.logger.Info("fresh cards offered", "fresh", fresh, "total", len(cards))
	return fresh
}

// PressBanner reports a tap on the fresh-data banner.
func (d *Deck) PressBanner() {
	if !d.banner.Visible() {
		return
	}
	d.banner.Press()
}

// Close disposes every owned component.
func (d *Deck) Close() {
	if d.ctrl != nil {
		d.ctrl.Dispose()
		d.ctrl = nil
	}
	d.pins.Dispose()
	d.banner.Dispose()
	d.toggle.Dispose()
}

func (d *Deck) applyPending() {
	if d.pending == nil {
		return
	}
	cards := d.pending
	d.pending = nil
	if d.feeds == nil {
		d.feeds = Feeds{}
	}
	d.feeds[d.mode] = cards
	d.banner.SetVisible(false)
	d.deal(cards)
	d.logger.Info("fresh cards applied", "cards", len(cards))
}

func (d *Deck) switchMode(mode domain.FeedMode) {
	if err := d.toggle.SetMode(mode); err != nil {
		d.logger.Warn("mode change rejected", "mode", mode, "err", err)
		return
	}
	d.mode = mode
	d.pending = nil
	if d.banner.Visible() {
		d.banner.SetVisible(false)
	}
	d.deal(d.feeds[mode])
	d.logger.Info("feed mode changed", "mode", mode, "cards", len(d.cards))
}

// deal replaces the stack and rewinds to its first card.
func (d *Deck) deal(cards []domain.Card) {
	d.cards = cards
	d.index = 0
	d.startCard()
}

// startCard replaces the live controller with one for the card on top.
func (d *Deck) startCard() {
	if d.ctrl != nil {
		d.ctrl.Dispose()
		d.ctrl = nil
	}
	card, ok := d.Current()
	if !ok {
		d.logger.Info("deck exhausted", "cards", len(d.cards))
		return
	}
	ctrl, err := gesture.NewController(d.gestureCfg, d.sched,
		gesture.WithID(card.ID),
		gesture.WithLogger(d.logger),
		gesture.WithLifecycleHooks(d.hooks),
		gesture.WithOnSettled(d.settled),
	)
	if err != nil {
		// Config was validated in NewDeck.
		d.logger.Error("failed to create controller", "card_id", card.ID, "err", err)
		return
	}
	d.ctrl = ctrl
}

func (d *Deck) settled(dec domain.Decision) {
	card, ok := d.Current()
	if !ok {
		return
	}
	switch dec {
	case domain.DecisionSave:
		pinIndex := d.tally.NextPinIndex()
		d.record(card, dec)
		if _, err := d.pins.Spawn(pinIndex, true); err != nil {
			d.logger.Warn("pin not spawned", "index", pinIndex, "err", err)
		}
		d.index++
	case domain.DecisionSkip:
		d.record(card, dec)
		d.index++
	}
	d.startCard()
}

type decisionRecord struct {
	cardID   string
	decision domain.Decision
}

// record applies the decision to the local tally, then writes every
// unflushed decision through the session manager. The local tally only
// grows, so pin indexes never repeat within a session.
func (d *Deck) record(card domain.Card, dec domain.Decision) {
	d.tally.Record(card.ID, dec, d.sched.Now())
	d.unflushed = append(d.unflushed, decisionRecord{cardID: card.ID, decision: dec})
	d.flush()
}

// flush replays unflushed decisions in order and stops at the first failure.
// The rest are retried with the next decision.
func (d *Deck) flush() {
	for len(d.unflushed) > 0 {
		next := d.unflushed[0]
		ctx, cancel := context.WithTimeout(context.Background(), d.recordTimeout)
		_, err := d.sessions.RecordDecision(ctx, d.sessionID, next.cardID, next.decision)
		cancel()
		if err != nil {
			d.logger.Error("failed to record decision",
				"card_id", next.cardID, "decision", next.decision, "unflushed", len(d.unflushed), "err", err)
			return
		}
		d.unflushed = d.unflushed[1:]
	}
}
