package uecomplete

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jward/uecomplete/internal/config"
	"github.com/jward/uecomplete/internal/runtime"
	"github.com/jward/uecomplete/internal/store"
	"github.com/jward/uecomplete/internal/typeclean"
	"github.com/jward/uecomplete/scripts"
)

// grammarName selects the Unreal C++ grammar from the runtime table.
const grammarName = "unreal_cpp"

var (
	// ErrGrammar reports that the C++ grammar could not be loaded.
	ErrGrammar = errors.New("uecomplete: grammar unavailable")
	// ErrNoTree reports that the parser produced no tree at all.
	ErrNoTree = errors.New("uecomplete: parser returned no tree")
)

// Engine answers completion requests against a symbol database. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	store     *store.Store
	ownsStore bool
	cfg       *config.Config
	cleaner   *typeclean.Cleaner
	values    *valueInferrer
	queries   queryCache
	logger    *slog.Logger
	tracer    trace.Tracer

	scriptsDir  string
	scriptsFS   fs.FS
	seedScript  string
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithConfig replaces the embedded default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithTracerProvider traces requests with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		scriptsFS:  scripts.FS,
		seedScript: runtime.SeedScriptPath("unreal"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.Default()
	}
	return e
}

// New creates an Engine over an existing Store. The Store is borrowed and
// not closed by Engine.Close; its cleaner is used for all type names.
func New(s *store.Store, opts ...Option) *Engine {
	e := newEngine(opts)
	e.attach(s)
	return e
}

// Open opens the SQLite symbol database at dbPath with cleaning rules and
// lookup heuristics taken from the configuration.
func Open(dbPath string, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	s, err := store.NewStore(dbPath,
		store.WithCleaner(e.cfg.Cleaner()),
		store.WithUninformativeReturns(e.cfg.Store.UninformativeReturns),
	)
	if err != nil {
		return nil, fmt.Errorf("uecomplete: open store: %w", err)
	}
	e.attach(s)
	e.ownsStore = true
	return e, nil
}

func (e *Engine) attach(s *store.Store) {
	e.store = s
	e.cleaner = s.Cleaner()
	e.values = newValueInferrer(e.cfg.ValueInference, e.cleaner)
}

// Close releases compiled queries and, for engines created by Open, the
// database.
func (e *Engine) Close() error {
	e.queries.close()
	if e.ownsStore {
		return e.store.Close()
	}
	return nil
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// resolver carries one request through classification and inference.
type resolver struct {
	store   *store.Store
	cleaner *typeclean.Cleaner
	values  *valueInferrer
	queries *queryCache
	logger  *slog.Logger

	src  []byte
	root *sitter.Node
	row  uint32
}

// Complete returns the completion items at the request's cursor. A request
// nothing can be inferred for yields an empty, non-nil slice; errors are
// reserved for grammar, parser and database failures.
func (e *Engine) Complete(ctx context.Context, req Request) ([]CompletionItem, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "uecomplete.Engine.Complete",
		trace.WithAttributes(
			attribute.Int("uecomplete.line", req.Line),
			attribute.Int("uecomplete.column", req.Column),
		),
	)
	defer span.End()

	logger := e.logger.With("request_id", uuid.NewString())
	items, ctxCase, err := e.complete(ctx, req, logger)

	completionDuration.Observe(time.Since(start).Seconds())
	completionRequests.WithLabelValues(outcomeFor(items, err)).Inc()
	if ctxCase != "" {
		completionContexts.WithLabelValues(ctxCase).Inc()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("completion failed", "line", req.Line, "column", req.Column, "error", err)
		return nil, err
	}
	if items == nil {
		items = []CompletionItem{}
	}
	span.SetAttributes(
		attribute.String("uecomplete.case", ctxCase),
		attribute.Int("uecomplete.items", len(items)),
	)
	logger.Debug("completion done", "case", ctxCase, "items", len(items))
	return items, nil
}

func (e *Engine) complete(ctx context.Context, req Request, logger *slog.Logger) ([]CompletionItem, string, error) {
	lang, ok := runtime.ParserForLanguage(grammarName)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrGrammar, grammarName)
	}
	e.queries.load(lang, e.logger)

	src := []byte(req.Content)
	tree, err := runtime.Parse(ctx, grammarName, src)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrNoTree, err)
	}
	defer tree.Close()

	if req.Line < 0 || req.Column < 0 || int64(req.Line) > math.MaxUint32 || int64(req.Column) > math.MaxUint32 {
		return nil, caseNone, nil
	}
	row, col := uint32(req.Line), uint32(req.Column)
	startCol := col
	if startCol > 0 {
		startCol--
	}

	root := tree.RootNode()
	n := descendantForRange(root, sitter.Point{Row: row, Column: startCol}, sitter.Point{Row: row, Column: col})
	if n == nil {
		return nil, caseNone, nil
	}
	logger.Debug("cursor node", "kind", n.Type(), "line", req.Line, "column", req.Column)

	r := &resolver{
		store:   e.store,
		cleaner: e.cleaner,
		values:  e.values,
		queries: &e.queries,
		logger:  logger,
		src:     src,
		root:    root,
		row:     row,
	}
	items, ctxCase, err := r.classify(ctx, n)
	if err != nil {
		return nil, ctxCase, fmt.Errorf("uecomplete: %s: %w", ctxCase, err)
	}
	logger.Debug("classified cursor", "case", ctxCase)
	return items, ctxCase, nil
}

// CompleteBatch resolves reqs concurrently with at most parallelism requests
// in flight (unbounded when parallelism <= 0). Results keep request order.
// The first failure cancels the remaining requests and is returned.
func (e *Engine) CompleteBatch(ctx context.Context, reqs []Request, parallelism int) ([][]CompletionItem, error) {
	results := make([][]CompletionItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, req := range reqs {
		g.Go(func() error {
			items, err := e.Complete(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
