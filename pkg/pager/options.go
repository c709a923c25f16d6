package pager

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxPerPage is the page size used when none is configured.
const DefaultMaxPerPage = 10

// OutOfRangePolicy decides what SetCurrentPage does with a page past the last one.
type OutOfRangePolicy int

const (
	// OutOfRangeAllow accepts the page; its results are empty.
	OutOfRangeAllow OutOfRangePolicy = iota
	// OutOfRangeReject fails with ErrOutOfRange.
	OutOfRangeReject
	// OutOfRangeClamp moves to the last page (or page 1 when there are no results).
	OutOfRangeClamp
)

func (p OutOfRangePolicy) String() string {
	switch p {
	case OutOfRangeAllow:
		return "allow"
	case OutOfRangeReject:
		return "reject"
	case OutOfRangeClamp:
		return "clamp"
	default:
		return fmt.Sprintf("OutOfRangePolicy(%d)", int(p))
	}
}

// ParseOutOfRangePolicy maps "allow", "reject" or "clamp" to a policy.
// An empty string means OutOfRangeAllow.
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return OutOfRangeAllow, nil
	case "reject":
		return OutOfRangeReject, nil
	case "clamp":
		return OutOfRangeClamp, nil
	default:
		return OutOfRangeAllow, invalidArgument("out_of_range", s, "must be one of allow, reject, clamp")
	}
}

type options struct {
	currentPage int
	maxPerPage  *int
	policy      OutOfRangePolicy
	logger      zerolog.Logger
	errs        []error
}

func defaultOptions() options {
	return options{
		currentPage: 1,
		maxPerPage:  Int(DefaultMaxPerPage),
		policy:      OutOfRangeAllow,
		logger:      zerolog.Nop(),
	}
}

// Option configures a Paginator at construction time.
type Option func(*options)

// WithCurrentPage sets the starting page. It must be >= 1.
// The out-of-range policy is not applied here since no count has been read yet.
func WithCurrentPage(page int) Option {
	return func(o *options) {
		if page < 1 {
			o.errs = append(o.errs, invalidArgument("current_page", page, "must be >= 1"))
			return
		}
		o.currentPage = page
	}
}

// WithMaxPerPage sets a bounded page size. It must be >= 1.
func WithMaxPerPage(n int) Option {
	return func(o *options) {
		if n < 1 {
			o.errs = append(o.errs, invalidArgument("max_per_page", n, "must be >= 1"))
			return
		}
		o.maxPerPage = Int(n)
	}
}

// WithUnboundedMaxPerPage puts every result on page 1.
func WithUnboundedMaxPerPage() Option {
	return func(o *options) { o.maxPerPage = nil }
}

// WithOutOfRangePolicy picks how SetCurrentPage treats pages past the last one.
func WithOutOfRangePolicy(p OutOfRangePolicy) Option {
	return func(o *options) {
		if p < OutOfRangeAllow || p > OutOfRangeClamp {
			o.errs = append(o.errs, invalidArgument("out_of_range", int(p), "unknown policy"))
			return
		}
		o.policy = p
	}
}

// WithLogger attaches a logger for adapter round trips. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
