package sequence

import (
	"context"
	"fmt"
	"time"
)

// Generator issues document numbers from a counter row per (series, year)
type Generator struct {
	counters CounterRepository
	history  NumberHistory
}

// NewGenerator creates a generator over the given stores. history may be nil,
// in which case new counters always start at 1.
func NewGenerator(counters CounterRepository, history NumberHistory) *Generator {
	return &Generator{counters: counters, history: history}
}

// Next consumes and returns the next number for s in now's calendar year
func (g *Generator) Next(ctx context.Context, s Series, now time.Time) (string, error) {
	if !s.IsValid() {
		_, err := ParseSeries(string(s))
		return "", err
	}
	year := now.Year()

	seed, err := g.seed(ctx, s, year)
	if err != nil {
		return "", err
	}
	seq, err := g.counters.Increment(ctx, s, year, seed)
	if err != nil {
		return "", fmt.Errorf("increment %s counter for %d: %w", s, year, err)
	}
	return Format(s, year, seq), nil
}

// Peek returns the number Next would issue without consuming it
func (g *Generator) Peek(ctx context.Context, s Series, now time.Time) (string, error) {
	if !s.IsValid() {
		_, err := ParseSeries(string(s))
		return "", err
	}
	year := now.Year()

	current, exists, err := g.counters.Current(ctx, s, year)
	if err != nil {
		return "", fmt.Errorf("read %s counter for %d: %w", s, year, err)
	}
	if exists {
		return Format(s, year, current+1), nil
	}
	seed, err := g.fromHistory(ctx, s, year)
	if err != nil {
		return "", err
	}
	return Format(s, year, seed), nil
}

// seed is the value a missing counter row starts with. Existing rows ignore it.
func (g *Generator) seed(ctx context.Context, s Series, year int) (int, error) {
	_, exists, err := g.counters.Current(ctx, s, year)
	if err != nil {
		return 0, fmt.Errorf("read %s counter for %d: %w", s, year, err)
	}
	if exists {
		return 1, nil
	}
	return g.fromHistory(ctx, s, year)
}

func (g *Generator) fromHistory(ctx context.Context, s Series, year int) (int, error) {
	if g.history == nil {
		return 1, nil
	}
	latest, err := g.history.LatestNumber(ctx, s, s.Prefix(year))
	if err != nil {
		return 0, fmt.Errorf("find latest %s number: %w", s, err)
	}
	if latest == "" {
		return 1, nil
	}
	last, err := ParseSequence(latest, s, year)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}
