package msgbundle

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Provider supplies one prebuilt bundle. Its dynamic type is its identity in
// a Registry.
type Provider interface {
	Bundle() (*MessageBundle, error)
}

// Discoverer returns the providers to register. It is called at most once per
// Registry.
type Discoverer func() []Provider

// Providers returns a Discoverer over a fixed provider list.
func Providers(ps ...Provider) Discoverer {
	return func() []Provider { return ps }
}

// Chain concatenates the results of several discoverers, in order.
func Chain(ds ...Discoverer) Discoverer {
	return func() []Provider {
		var out []Provider
		for _, d := range ds {
			if d != nil {
				out = append(out, d()...)
			}
		}
		return out
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report discovery.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// Registry maps provider types to their bundles. The mapping is built once,
// on the first call to Init or Resolve, and never refreshed.
type Registry struct {
	discover Discoverer
	logger   zerolog.Logger

	once    sync.Once
	bundles map[reflect.Type]*MessageBundle
	err     error
}

// NewRegistry returns a Registry that populates itself from d.
func NewRegistry(d Discoverer, opts ...RegistryOption) *Registry {
	if d == nil {
		panic(fmt.Errorf("%w: nil discoverer", ErrInvalidArgument))
	}
	r := &Registry{
		discover: d,
		logger:   log.With().Str("component", "msgbundle.registry").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init runs discovery if it has not run yet. Concurrent callers block until
// the first one is done. The returned error joins every provider failure; the
// providers that succeeded stay registered either way.
func (r *Registry) Init() error {
	r.once.Do(r.populate)
	return r.err
}

func (r *Registry) populate() {
	bundles := make(map[reflect.Type]*MessageBundle)
	seen := make(map[reflect.Type]struct{})
	var errs []error

	for _, p := range r.discover() {
		if p == nil {
			continue
		}
		t := reflect.TypeOf(p)
		if _, exists := seen[t]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateProvider, t))
			continue
		}
		seen[t] = struct{}{}
		b, err := p.Bundle()
		if err != nil {
			r.logger.Warn().Err(err).Str("provider", t.String()).Msg("provider failed, skipping")
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrProvider, t, err))
			continue
		}
		if b == nil {
			errs = append(errs, fmt.Errorf("%w: %s returned a nil bundle", ErrProvider, t))
			continue
		}
		bundles[t] = b
	}

	r.bundles = bundles
	r.err = errors.Join(errs...)
	r.logger.Debug().Int("providers", len(bundles)).Msg("bundle registry populated")
}

// Resolve returns the bundle registered for the dynamic type of p.
func (r *Registry) Resolve(p Provider) (*MessageBundle, bool) {
	if p == nil {
		return nil, false
	}
	return r.ResolveType(reflect.TypeOf(p))
}

// ResolveType returns the bundle registered for provider type t. A type that
// was never registered, or whose provider failed, yields false.
func (r *Registry) ResolveType(t reflect.Type) (*MessageBundle, bool) {
	_ = r.Init()
	b, ok := r.bundles[t]
	return b, ok
}

// For resolves the bundle of provider type P.
func For[P Provider](r *Registry) (*MessageBundle, bool) {
	return r.ResolveType(reflect.TypeFor[P]())
}

// Identities returns the registered provider types ordered by name.
func (r *Registry) Identities() []reflect.Type {
	_ = r.Init()
	out := make([]reflect.Type, 0, len(r.bundles))
	for t := range r.bundles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
