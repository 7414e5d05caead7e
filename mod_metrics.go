package starfield

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the starfield collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry
	// Addr is the bound /metrics address once serving.
	Addr string

	Ticks        prometheus.Counter
	Recycled     prometheus.Counter
	Particles    prometheus.Gauge
	GlobalSpeed  prometheus.Gauge
	FrameSeconds prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starfield_ticks_total",
			Help: "Simulation ticks executed",
		}),
		Recycled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starfield_recycled_total",
			Help: "Particles moved back to the far plane",
		}),
		Particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "starfield_particles",
			Help: "Particles in the pool",
		}),
		GlobalSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "starfield_global_speed",
			Help: "Current global speed multiplier",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "starfield_frame_seconds",
			Help:    "Wall time between frames",
			Buckets: []float64{0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),
	}
	m.Registry.MustRegister(m.Ticks, m.Recycled, m.Particles, m.GlobalSpeed, m.FrameSeconds)
	return m
}

// MetricsModule records simulation metrics every frame and, when Addr is
// set, serves them on /metrics.
type MetricsModule struct {
	Addr string
}

func (mod MetricsModule) Install(app *App, cmd *Commands) {
	m := NewMetrics()
	cmd.AddResources(m)

	app.UseSystem(System(func(m *Metrics, t *Time) {
		metricsSystem(app, m, t)
	}).InStage(PostUpdate))

	if mod.Addr == "" {
		return
	}
	if err := serveMetrics(app, m, mod.Addr); err != nil {
		app.Logger().Errorf("Metrics endpoint disabled: %v", err)
	}
}

func metricsSystem(app *App, m *Metrics, t *Time) {
	if t.Dt > 0 {
		m.FrameSeconds.Observe(t.Dt.Seconds())
	}
	state, ok := Resource[StarfieldState](app)
	if !ok || state.Sim.TornDown() {
		return
	}
	m.Ticks.Inc()
	m.Recycled.Add(float64(state.Recycled))
	m.Particles.Set(float64(state.Sim.Len()))
	m.GlobalSpeed.Set(float64(state.Sim.GlobalSpeed()))
}

func serveMetrics(app *App, m *Metrics, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	m.Addr = ln.Addr().String()
	log := app.Logger()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics server: %v", err)
		}
	}()
	app.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("Metrics server shutdown: %v", err)
		}
	})
	log.Infof("Serving metrics on http://%s/metrics", m.Addr)
	return nil
}
