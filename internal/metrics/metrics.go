// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gearspire/internal/app"
	"gearspire/internal/event"
)

// Metrics holds every collector. Labels are bounded: creep and tower kinds,
// HTTP route patterns, rejection reasons.
type Metrics struct {
	reg *prometheus.Registry

	TickDuration prometheus.Histogram
	CreepsAlive  prometheus.Gauge
	Towers       prometheus.Gauge
	Projectiles  prometheus.Gauge
	Lives        prometheus.Gauge
	Gold         prometheus.Gauge
	Wave         prometheus.Gauge

	EnemiesKilled  *prometheus.CounterVec
	EnemiesLeaked  *prometheus.CounterVec
	WavesCompleted prometheus.Counter
	TowersPlaced   *prometheus.CounterVec
	TowersLeveled  prometheus.Counter

	RequestLatency     *prometheus.HistogramVec
	RequestTotal       *prometheus.CounterVec
	ConnectionRejected *prometheus.CounterVec
	WSConnections      prometheus.Gauge
	WSMessages         prometheus.Counter
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gearspire_tick_duration_seconds",
			Help:    "Time spent in one simulation tick",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.0167, 0.05},
		}),
		CreepsAlive: f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_creeps_alive", Help: "Creeps on the field"}),
		Towers:      f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_towers", Help: "Towers on the field"}),
		Projectiles: f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_projectiles", Help: "Projectiles in flight"}),
		Lives:       f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_lives", Help: "Player lives left"}),
		Gold:        f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_gold", Help: "Player gold"}),
		Wave:        f.NewGauge(prometheus.GaugeOpts{Name: "gearspire_wave", Help: "Current wave number"}),

		EnemiesKilled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gearspire_enemies_killed_total",
			Help: "Creeps killed",
		}, []string{"kind"}),
		EnemiesLeaked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gearspire_enemies_leaked_total",
			Help: "Creeps that reached the goal",
		}, []string{"kind"}),
		WavesCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "gearspire_waves_completed_total",
			Help: "Waves completed",
		}),
		TowersPlaced: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gearspire_towers_placed_total",
			Help: "Towers placed",
		}, []string{"kind"}),
		TowersLeveled: f.NewCounter(prometheus.CounterOpts{
			Name: "gearspire_tower_levelups_total",
			Help: "Tower level-ups from kills or upgrades",
		}),

		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		ConnectionRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "connection_rejected_total",
			Help: "Requests rejected by the rate limiter or connection caps",
		}, []string{"reason"}),
		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Currently active WebSocket connections",
		}),
		WSMessages: f.NewCounter(prometheus.CounterOpts{
			Name: "websocket_messages_total",
			Help: "Snapshots broadcast to WebSocket clients",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Subscribe feeds the event counters from d.
func (m *Metrics) Subscribe(d *event.Dispatcher) {
	for _, t := range []event.EventType{event.EnemyKilled, event.EnemyLeaked, event.WaveCompleted, event.TowerPlaced, event.TowerLeveled} {
		d.Subscribe(t, m)
	}
}

// OnEvent implements event.Listener.
func (m *Metrics) OnEvent(e event.Event) {
	switch e.Type {
	case event.EnemyKilled:
		if d, ok := e.Data.(event.EnemyKilledData); ok {
			m.EnemiesKilled.WithLabelValues(string(d.EnemyKind)).Inc()
		}
	case event.EnemyLeaked:
		if d, ok := e.Data.(event.EnemyLeakedData); ok {
			m.EnemiesLeaked.WithLabelValues(string(d.EnemyKind)).Inc()
		}
	case event.WaveCompleted:
		m.WavesCompleted.Inc()
	case event.TowerPlaced:
		if d, ok := e.Data.(event.TowerData); ok {
			m.TowersPlaced.WithLabelValues(string(d.Kind)).Inc()
		}
	case event.TowerLeveled:
		m.TowersLeveled.Inc()
	}
}

// ObserveTick is an app.TickHook.
func (m *Metrics) ObserveTick(g *app.Game, took time.Duration) {
	m.TickDuration.Observe(took.Seconds())
	m.CreepsAlive.Set(float64(len(g.World.LiveCreeps())))
	m.Towers.Set(float64(len(g.World.Towers)))
	m.Projectiles.Set(float64(len(g.World.Projectiles)))
	m.Lives.Set(float64(g.Lives))
	m.Gold.Set(float64(g.Gold))
	m.Wave.Set(float64(g.WaveSystem.CurrentWave()))
}

// RecordRequest records HTTP request metrics. route is the pattern, not the URL.
func (m *Metrics) RecordRequest(method, route string, status int, took time.Duration) {
	m.RequestLatency.WithLabelValues(method, route).Observe(took.Seconds())
	m.RequestTotal.WithLabelValues(method, route, http.StatusText(status)).Inc()
}
