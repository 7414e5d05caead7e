package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiler_ScopesAndCounts(t *testing.T) {
	p := NewProfiler()

	p.BeginScope("Tick")
	time.Sleep(time.Millisecond)
	p.EndScope("Tick")
	p.BeginScope("Tick")
	p.EndScope("Tick")
	p.BeginScope("Render")
	p.EndScope("Render")
	p.SetCount("Stars", 25000)

	assert.Equal(t, []string{"Tick", "Render"}, p.Order)
	assert.Equal(t, 2, p.Calls["Tick"])
	assert.Greater(t, p.Scopes["Tick"], time.Duration(0))
	assert.Contains(t, p.Summary(), "Stars=25000")
	assert.Contains(t, p.Summary(), "Tick=")

	p.Reset()
	assert.Equal(t, time.Duration(0), p.Average("Tick"))
	assert.Equal(t, 25000, p.Counts["Stars"])
}

func TestProfiler_EndWithoutBegin(t *testing.T) {
	p := NewProfiler()
	p.EndScope("missing")
	assert.Equal(t, 0, p.Calls["missing"])

	var nilProfiler *Profiler
	nilProfiler.BeginScope("x")
	nilProfiler.EndScope("x")
}
