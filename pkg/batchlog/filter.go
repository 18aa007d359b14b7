package batchlog

import "maps"

// LevelFilter maps category names to the minimum level accepted for them.
// It is immutable after construction, so lookups are safe from any goroutine
// without locking.
type LevelFilter struct {
	rules    map[string]Level
	fallback Level
}

// NewLevelFilter builds a filter from category rules. The DefaultCategory key,
// when present, applies to every category without an exact rule; categories
// matching neither fall back to LevelInfo.
func NewLevelFilter(rules map[string]Level) *LevelFilter {
	f := &LevelFilter{
		rules:    make(map[string]Level, len(rules)),
		fallback: LevelInfo,
	}
	maps.Copy(f.rules, rules)
	if def, ok := f.rules[DefaultCategory]; ok {
		f.fallback = def
	}
	return f
}

// Resolve returns the minimum accepted level for a category: the exact rule if
// one exists, otherwise the DefaultCategory rule, otherwise LevelInfo.
func (f *LevelFilter) Resolve(category string) Level {
	if min, ok := f.rules[category]; ok {
		return min
	}
	return f.fallback
}
