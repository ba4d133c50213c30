package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/geoscene/internal/crs"
	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/fetcher"
	"github.com/sells-group/geoscene/internal/geojson"
)

// ErrMissingArgument is returned when a required input is absent.
var ErrMissingArgument = eris.New("loader: missing required argument")

// State tracks where a load currently is.
type State int

const (
	StateIdle State = iota
	StateResolvingCRS
	StateDispatching
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingCRS:
		return "resolving_crs"
	case StateDispatching:
		return "dispatching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "state(?)"
}

// FetchFunc fetches and parses a GeoJSON document from a URL.
type FetchFunc func(ctx context.Context, url string) (*geojson.Document, error)

// Loader materializes GeoJSON documents into an entity store. Each Load fully
// clears and repopulates the store; overlapping Load calls on one Loader race
// on that store and the last one to finish wins. Cancellation is the context's
// job and only takes effect while the CRS resolver or fetch is in flight.
type Loader struct {
	store    *entity.Store
	registry *crs.Registry
	styles   *entity.StyleTemplates
	fetch    FetchFunc
	state    State
	source   string
	log      *zap.Logger

	// OnChanged fires once per successful Load with the source hint.
	// OnError fires when a LoadURL fetch fails; errors from Load itself are
	// returned directly, so callers observing a Loader must handle both paths.
	OnChanged func(source string)
	OnError   func(err error)
}

// New creates a Loader over the given store. A nil registry falls back to the
// process-wide CRS registry, a nil styles bundle to the stock templates.
func New(store *entity.Store, registry *crs.Registry, styles *entity.StyleTemplates) *Loader {
	if registry == nil {
		registry = crs.Default()
	}
	if styles == nil {
		styles = entity.DefaultStyles()
	}
	return &Loader{
		store:    store,
		registry: registry,
		styles:   styles,
		fetch:    fetcher.FetchJSON,
		log:      zap.L().With(zap.String("component", "loader")),
	}
}

// SetFetcher replaces the URL fetch collaborator, mainly for tests.
func (l *Loader) SetFetcher(f FetchFunc) {
	l.fetch = f
}

// State returns the state of the most recent load.
func (l *Loader) State() State {
	return l.state
}

// Source returns the source hint of the most recent load.
func (l *Loader) Source() string {
	return l.source
}

// Store returns the entity store this loader populates.
func (l *Loader) Store() *entity.Store {
	return l.store
}

// Load resolves the document's CRS, then clears the store and dispatches the
// document through it. The store is untouched if CRS resolution fails; once
// dispatch has begun there is no rollback, so a decoding error leaves the
// store holding whatever was produced before the failing node.
func (l *Loader) Load(ctx context.Context, doc *geojson.Document, source string) error {
	if doc == nil {
		l.state = StateFailed
		return eris.Wrap(ErrMissingArgument, "document")
	}
	l.source = source

	l.state = StateResolvingCRS
	transform, err := l.registry.Resolve(ctx, doc.CRS)
	if err != nil {
		l.state = StateFailed
		return err
	}

	l.state = StateDispatching
	l.store.Clear()
	r := &run{
		store:     l.store,
		styles:    l.styles,
		transform: transform,
	}
	if err := r.dispatch(doc); err != nil {
		l.state = StateFailed
		return err
	}

	l.state = StateDone
	l.log.Info("document loaded",
		zap.String("source", source),
		zap.Int("entities", l.store.Len()),
	)
	if l.OnChanged != nil {
		l.OnChanged(source)
	}
	return nil
}

// LoadData parses raw GeoJSON bytes and loads the result.
func (l *Loader) LoadData(ctx context.Context, data []byte, source string) error {
	doc, err := geojson.Parse(data)
	if err != nil {
		l.state = StateFailed
		return err
	}
	return l.Load(ctx, doc, source)
}

// LoadURL fetches a GeoJSON document and loads it. A fetch failure is raised
// on the OnError hook as well as returned; the store is left untouched.
func (l *Loader) LoadURL(ctx context.Context, url string) error {
	if url == "" {
		return eris.Wrap(ErrMissingArgument, "url")
	}

	doc, err := l.fetch(ctx, url)
	if err != nil {
		l.state = StateFailed
		l.log.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		if l.OnError != nil {
			l.OnError(err)
		}
		return err
	}
	return l.Load(ctx, doc, url)
}
