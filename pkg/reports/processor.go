package reports

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/metrics"
)

// Processor collects reports of one command and logs them as they arrive.
// It is safe for concurrent use by node communication workers.
type Processor struct {
	mu     sync.Mutex
	items  []Item
	logger zerolog.Logger
	sink   func(Item)
}

// NewProcessor creates a processor logging through logger
func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{logger: logger}
}

// OnReport registers a callback invoked for every processed report, e.g. to
// print it to the user
func (p *Processor) OnReport(fn func(Item)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = fn
}

// Process records a single report. It returns a *LibraryError when the report
// is an error.
func (p *Processor) Process(item Item) error {
	return p.ProcessList([]Item{item})
}

// ProcessList records reports and returns a *LibraryError carrying all error
// reports of the list, if any
func (p *Processor) ProcessList(items []Item) error {
	var errs []Item

	p.mu.Lock()
	p.items = append(p.items, items...)
	sink := p.sink
	p.mu.Unlock()

	for _, item := range items {
		p.log(item)
		if sink != nil {
			sink(item)
		}
		if item.Severity == SeverityError {
			errs = append(errs, item)
		}
	}

	if len(errs) > 0 {
		return NewLibraryError(errs...)
	}
	return nil
}

// Items returns a copy of every processed report
func (p *Processor) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Item(nil), p.items...)
}

// HasErrors reports whether any error report was processed
func (p *Processor) HasErrors() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (p *Processor) log(item Item) {
	var event *zerolog.Event
	switch item.Severity {
	case SeverityError:
		event = p.logger.Error()
		metrics.ReportsTotal.WithLabelValues(string(item.Code)).Inc()
	case SeverityWarning:
		event = p.logger.Warn()
		metrics.ReportsTotal.WithLabelValues(string(item.Code)).Inc()
	case SeverityInfo:
		event = p.logger.Info()
	default:
		event = p.logger.Debug()
	}
	event.
		Str("code", string(item.Code)).
		Str("kind", item.Kind.String()).
		Bool("forceable", item.Forceable).
		Msg(item.Message())
}
