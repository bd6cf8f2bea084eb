package littlefs

import "github.com/sirupsen/logrus"

// Option configures a Handle at Connect/Format time.
type Option func(h *Handle) error

// WithLogger attaches a structured logger. Defaults to logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(h *Handle) error {
		h.log = l
		return nil
	}
}

// WithClock overrides the clock used for attribute timestamps. Defaults to
// the system clock.
func WithClock(c Clock) Option {
	return func(h *Handle) error {
		h.clock = c
		return nil
	}
}

// WithNameLengthMax overrides the maximum file/directory name length.
func WithNameLengthMax(n uint32) Option {
	return func(h *Handle) error {
		h.nameLengthMax = n
		return nil
	}
}

// WithFileSizeMax overrides the maximum file size.
func WithFileSizeMax(n uint32) Option {
	return func(h *Handle) error {
		h.fileSizeMax = n
		return nil
	}
}

// WithLookahead sets the size in bits of the allocator's lookahead window.
func WithLookahead(bits int) Option {
	return func(h *Handle) error {
		h.lookaheadSize = bits
		return nil
	}
}
