package loopexec

import "github.com/joeycumines/logiface"

type options struct {
	logger     *logiface.Logger[logiface.Event]
	drainLimit int
}

// An Option configures an [Executor].
type Option func(*options)

// WithLogger sets the logger used to report dropped panicking tasks and
// other discarded work. The default is no logger; a nil logger is valid
// and silent.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDrainLimit caps how many tasks one host-loop callback may poll.
// Whatever remains ready is handed to a follow-up callback, giving the host
// loop a chance to run in between. Zero or negative means no cap: each
// callback polls every task that was ready when it began, which is the
// default.
func WithDrainLimit(n int) Option {
	return func(o *options) {
		o.drainLimit = n
	}
}

func resolveOptions(opts []Option) options {
	var cfg options
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
