package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/pager/internal/config"
	"github.com/maxviazov/pager/internal/repository"
	"github.com/maxviazov/pager/pkg/pager"
)

// Source is a named adapter. Tx is optional; when set, count and slice run in one transaction.
type Source struct {
	Name    string
	Kind    string
	Adapter pager.Adapter[any]
	Tx      repository.TxManager
}

// Defaults are the pager settings a browse starts from before the request applies.
type Defaults struct {
	MaxPerPage int // 0 means pager.DefaultMaxPerPage
	Unbounded  bool
	OutOfRange pager.OutOfRangePolicy
}

// DefaultsFromConfig converts the pager section of the config.
func DefaultsFromConfig(c config.PagerConfig) (Defaults, error) {
	policy, err := pager.ParseOutOfRangePolicy(c.OutOfRange)
	if err != nil {
		return Defaults{}, err
	}
	if c.MaxPerPage < 0 {
		return Defaults{}, fmt.Errorf("pager.max_per_page must be >= 0, got %d", c.MaxPerPage)
	}
	return Defaults{MaxPerPage: c.MaxPerPage, Unbounded: c.Unbounded, OutOfRange: policy}, nil
}

func (d Defaults) options() []pager.Option {
	opts := []pager.Option{pager.WithOutOfRangePolicy(d.OutOfRange)}
	switch {
	case d.Unbounded:
		opts = append(opts, pager.WithUnboundedMaxPerPage())
	case d.MaxPerPage > 0:
		opts = append(opts, pager.WithMaxPerPage(d.MaxPerPage))
	}
	return opts
}

// browseService holds browse logic: validation + orchestration, no storage details.
type browseService struct {
	sources  map[string]Source
	defaults Defaults
	log      zerolog.Logger
}

func NewBrowseService(sources []Source, defaults Defaults, logger zerolog.Logger) (BrowseService, error) {
	m := make(map[string]Source, len(sources))
	for _, s := range sources {
		if s.Name == "" || s.Adapter == nil {
			return nil, errors.New("source needs a name and an adapter")
		}
		if _, dup := m[s.Name]; dup {
			return nil, fmt.Errorf("source %q registered twice", s.Name)
		}
		m[s.Name] = s
	}
	l := logger.With().Str("module", "service").Str("component", "browse").Logger()
	return &browseService{sources: m, defaults: defaults, log: l}, nil
}

func (s *browseService) Sources() []SourceInfo {
	out := make([]SourceInfo, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, SourceInfo{Name: src.Name, Kind: src.Kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *browseService) Browse(ctx context.Context, req BrowseRequest) (pager.Page[any], error) {
	start := time.Now()

	src, ok := s.sources[req.Source]
	var ferrs []FieldError
	var causes []error
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "source", Message: "unknown source"})
		causes = append(causes, ErrUnknownSource)
	}
	if req.Unbounded && req.MaxPerPage != nil {
		ferrs = append(ferrs, FieldError{Field: "max_per_page", Message: "cannot be combined with unbounded"})
	}
	if err := newInvalidInput(ferrs, causes...); err != nil {
		s.log.Debug().Str("source", req.Source).Interface("field_errors", ferrs).Msg("browse validation failed")
		return pager.Page[any]{}, err
	}

	var page pager.Page[any]
	run := func(ctx context.Context) error {
		p, err := s.configure(ctx, src, req)
		if err != nil {
			return err
		}
		page, err = p.Export(ctx)
		return err
	}

	var err error
	if src.Tx != nil {
		err = src.Tx.WithinTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.log.Debug().Str("source", req.Source).Interface("field_errors", FieldErrors(err)).Msg("browse rejected")
			return pager.Page[any]{}, err
		}
		s.log.Error().Err(err).Str("source", req.Source).Int("page", req.Page).Msg("browse failed")
		return pager.Page[any]{}, err
	}

	s.log.Info().
		Str("source", req.Source).
		Int("page", page.CurrentPage).
		Int("total_pages", page.TotalPages).
		Int("items", len(page.Items)).
		Dur("took", time.Since(start)).
		Msg("page served")
	return page, nil
}

// configure builds a pager from the defaults and applies the request through the setters,
// so a bad value fails exactly the way the pager contract says it should.
func (s *browseService) configure(ctx context.Context, src Source, req BrowseRequest) (*pager.Paginator[any], error) {
	p, err := pager.New(src.Adapter, append(s.defaults.options(), pager.WithLogger(s.log))...)
	if err != nil {
		return nil, err
	}

	var ferrs []FieldError
	var causes []error
	switch {
	case req.Unbounded:
		if err := p.SetMaxPerPage(nil); err != nil {
			return nil, err
		}
	case req.MaxPerPage != nil:
		if err := p.SetMaxPerPage(req.MaxPerPage); err != nil {
			ferrs = append(ferrs, fieldFromArgument("max_per_page", err))
			causes = append(causes, err)
		}
	}
	if len(ferrs) == 0 {
		// the out-of-range check depends on the final page size
		if err := p.SetCurrentPage(ctx, req.Page); err != nil {
			if !errors.Is(err, pager.ErrInvalidArgument) {
				return nil, err
			}
			ferrs = append(ferrs, fieldFromArgument("page", err))
			causes = append(causes, err)
		}
	}
	if err := newInvalidInput(ferrs, causes...); err != nil {
		return nil, err
	}
	return p, nil
}

func fieldFromArgument(field string, err error) FieldError {
	var argErr *pager.ArgumentError
	if errors.As(err, &argErr) {
		return FieldError{Field: field, Message: argErr.Message}
	}
	return FieldError{Field: field, Message: err.Error()}
}
