package metadata

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source is an external metadata provider.
type Source interface {
	Lookup(ctx context.Context, title string) (Record, error)
}

// Cache holds external lookups keyed by normalized title.
type Cache interface {
	Get(ctx context.Context, normalized string) (Record, bool)
	Set(ctx context.Context, normalized string, rec Record) error
}

// Resolver resolves titles through the known-title table, the optional
// cache and source, and the default record.  It is safe for concurrent use
// as long as its Source and Cache are.
type Resolver struct {
	source Source
	cache  Cache
	logger zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource enables the external lookup tier.
func WithSource(s Source) Option { return func(r *Resolver) { r.source = s } }

// WithCache places c in front of the external source.
func WithCache(c Cache) Option { return func(r *Resolver) { r.cache = c } }

// WithLogger overrides the package logger.
func WithLogger(l zerolog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver builds a Resolver.  Without WithSource only the known-title
// and default tiers are used.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: log.With().Str("component", "resolver").Logger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns metadata for title.  It never fails: every external error
// falls through to the next tier.
func (r *Resolver) Resolve(ctx context.Context, title string) Record {
	if rec, ok := Known(title); ok {
		r.logger.Info().Str("title", title).Msg("using hardcoded data")
		return rec
	}

	if r.source != nil {
		norm := Normalize(title)
		if r.cache != nil {
			if rec, ok := r.cache.Get(ctx, norm); ok {
				r.logger.Debug().Str("title", title).Msg("lookup cache hit")
				return rec
			}
		}
		rec, err := r.source.Lookup(ctx, title)
		switch {
		case err == nil:
			if r.cache != nil {
				if err := r.cache.Set(ctx, norm, rec); err != nil {
					r.logger.Warn().Err(err).Str("title", title).Msg("lookup cache write failed")
				}
			}
			return rec
		case errors.Is(err, ErrNotFound):
			r.logger.Warn().Err(err).Str("title", title).Msg("omdb lookup missed")
		default:
			r.logger.Error().Err(err).Str("title", title).Msg("omdb lookup failed")
		}
	}

	r.logger.Info().Str("title", title).Msg("using fallback data")
	return Default(title)
}
