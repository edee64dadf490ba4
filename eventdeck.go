package eventdeck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/eventdeck/internal/config"
	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/internal/runtime"
	"github.com/aretw0/eventdeck/pkg/adapters/memory"
	"github.com/aretw0/eventdeck/pkg/analyzer"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/orbit"
	"github.com/aretw0/eventdeck/pkg/ports"
	"github.com/aretw0/eventdeck/pkg/session"
)

type (
	// Config is the full set of engine tunables.
	Config = config.Config
	// Deck is a running swipe stack.
	Deck = runtime.Deck
	// Feeds maps each mode to the cards it shows.
	Feeds = runtime.Feeds
	// Snapshot is one renderable frame of a Deck.
	Snapshot = runtime.Snapshot
)

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a YAML, TOML or JSON config file over the defaults.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// Engine wires the interaction components on one frame scheduler.
type Engine struct {
	cfg        Config
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	clock      ports.Clock
	store      ports.TallyStore
	httpClient *http.Client

	sched    *frame.Scheduler
	sessions *session.Manager
	analyzer *analyzer.Client
}

// Option configures the Engine.
type Option func(*Engine)

// WithConfig replaces the default tunables.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets a custom logger for the engine and every component it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock drives the scheduler from clock. Tests pass a frame.ManualClock.
func WithClock(clock ports.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithStore sets the tally store. The default keeps tallies in memory.
func WithStore(store ports.TallyStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithHTTPClient sets the HTTP client used to reach the analysis service.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Engine) {
		e.httpClient = hc
	}
}

// New validates the configuration and builds the shared scheduler, session
// manager and analysis client.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    config.Default(),
		logger: logging.NewNop(),
		clock:  frame.SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	e.sched = frame.NewScheduler(e.clock, frame.WithLogger(e.logger))
	e.sessions = session.NewManager(e.store, session.WithLogger(e.logger), session.WithClock(e.clock))

	clientOpts := []analyzer.Option{
		analyzer.WithLogger(e.logger),
		analyzer.WithLifecycleHooks(e.hooks),
		analyzer.WithAnalyzeTimeout(e.cfg.Analyzer.AnalyzeTimeout),
		analyzer.WithHealthTimeout(e.cfg.Analyzer.HealthTimeout),
	}
	if e.httpClient != nil {
		clientOpts = append(clientOpts, analyzer.WithHTTPClient(e.httpClient))
	}
	if e.cfg.Analyzer.Contract {
		contract, err := analyzer.LoadContract(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis contract: %w", err)
		}
		clientOpts = append(clientOpts, analyzer.WithContract(contract))
	}
	e.analyzer = analyzer.New(e.cfg.Analyzer.BaseURL, clientOpts...)

	return e, nil
}

// Config returns the validated tunables.
func (e *Engine) Config() Config { return e.cfg }

// Scheduler returns the frame scheduler every component runs on. Hosts tick
// it directly or through Loop.
func (e *Engine) Scheduler() *frame.Scheduler { return e.sched }

// Sessions returns the tally manager.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Analyzer returns the image-analysis client.
func (e *Engine) Analyzer() *analyzer.Client { return e.analyzer }

// Loop returns a real-time loop ticking the engine scheduler.
func (e *Engine) Loop(opts ...frame.LoopOption) *frame.Loop {
	opts = append([]frame.LoopOption{frame.WithLoopLogger(e.logger)}, opts...)
	return frame.NewLoop(e.sched, opts...)
}

// NewDeck starts a swipe stack for sessionID. An empty sessionID starts an
// anonymous session.
func (e *Engine) NewDeck(ctx context.Context, feeds Feeds, sessionID string) (*Deck, error) {
	return runtime.NewDeck(ctx, feeds, e.sched,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithGestureConfig(e.cfg.GestureConfig()),
		runtime.WithPinConfig(e.cfg.PinConfig()),
		runtime.WithSession(e.sessions, sessionID),
		runtime.WithMode(e.cfg.Deck.Mode),
		runtime.WithBannerMessage(e.cfg.Deck.BannerMessage),
	)
}

// NewOrbit creates an orbit animator for members. Call Start to run it.
func (e *Engine) NewOrbit(members []orbit.Member) (*orbit.Animator, error) {
	return orbit.New(members, e.cfg.OrbitConfig(), e.sched,
		orbit.WithLogger(e.logger),
		orbit.WithLifecycleHooks(e.hooks),
	)
}
