package batchlog

import "sync"

// Provider creates and caches one Logger per category and owns the shared
// hand-off queue they emit into. A Provider instance is the unit of lifetime:
// there is no ambient global registry, consumers receive the Provider (or
// loggers created from it) explicitly.
type Provider struct {
	filter *LevelFilter
	queue  *recordQueue

	mu      sync.RWMutex
	loggers map[string]*Logger
}

// NewProvider builds a provider from category rules (see NewLevelFilter for
// the lookup semantics). The rules are fixed for the provider's lifetime;
// there is no hot-reload.
func NewProvider(rules map[string]Level) *Provider {
	return &Provider{
		filter:  NewLevelFilter(rules),
		queue:   newRecordQueue(),
		loggers: make(map[string]*Logger),
	}
}

// Logger returns the logger for a category, creating and caching it on first
// use. Concurrent first access for the same category yields exactly one live
// instance; later callers observe it.
func (p *Provider) Logger(category string) *Logger {
	p.mu.RLock()
	l, ok := p.loggers[category]
	p.mu.RUnlock()
	if ok {
		return l
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Re-check under the write lock - another goroutine may have won the race.
	if l, ok := p.loggers[category]; ok {
		return l
	}

	l = &Logger{
		category: category,
		min:      p.filter.Resolve(category),
		queue:    p.queue,
	}
	p.loggers[category] = l
	return l
}

// QueueDepth reports the number of records currently buffered in the hand-off
// queue. Useful for observing backlog growth during sink outages.
func (p *Provider) QueueDepth() int {
	return p.queue.len()
}
