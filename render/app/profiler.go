package app

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named scope between Resets.
type Profiler struct {
	Scopes     map[string]time.Duration
	Calls      map[string]int
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		Calls:      make(map[string]int),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	if p == nil {
		return
	}
	p.StartTimes[name] = time.Now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if p == nil {
		return
	}
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] += time.Since(start)
		p.Calls[name]++
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	if p == nil {
		return
	}
	p.Counts[name] = count
}

// Average returns the mean duration of a scope since the last Reset.
func (p *Profiler) Average(name string) time.Duration {
	calls := p.Calls[name]
	if calls == 0 {
		return 0
	}
	return p.Scopes[name] / time.Duration(calls)
}

// Reset clears timings but keeps scope order and counters.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
		p.Calls[k] = 0
	}
}

// Summary renders one line: average ms per scope, then counters sorted by name.
func (p *Profiler) Summary() string {
	var sb strings.Builder
	for i, name := range p.Order {
		if i > 0 {
			sb.WriteString(" ")
		}
		ms := float64(p.Average(name).Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("%s=%.2fms", name, ms))
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%s=%d", k, p.Counts[k]))
	}
	return sb.String()
}
