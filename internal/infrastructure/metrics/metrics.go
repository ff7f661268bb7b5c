// Package metrics exposes orchestration counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/logging"
)

const namespace = "webdock"

// Metrics implements port.Metrics with Prometheus collectors.
type Metrics struct {
	LiveContexts     prometheus.Gauge
	ContextsCreated  prometheus.Counter
	Hibernations     prometheus.Counter
	Decisions        *prometheus.CounterVec
	LoadFailures     prometheus.Counter
	BadgeTotal       prometheus.Gauge
	DownloadProgress prometheus.Gauge
	ActiveDownloads  prometheus.Gauge
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LiveContexts: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_contexts",
			Help:      "Number of workspaces with a live browsing context",
		}),
		ContextsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_created_total",
			Help:      "Browsing contexts created for workspaces",
		}),
		Hibernations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hibernations_total",
			Help:      "Workspaces hibernated by the scheduler",
		}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_decisions_total",
			Help:      "Navigation routing decisions by action",
		}, []string{"action"}),
		LoadFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Main-frame load failures recorded",
		}),
		BadgeTotal: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "badge_total",
			Help:      "Aggregated unread count published as the application badge",
		}),
		DownloadProgress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "download_progress_ratio",
			Help:      "Aggregate progress of in-flight downloads",
		}),
		ActiveDownloads: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_downloads",
			Help:      "Downloads currently in flight",
		}),
	}
}

func (m *Metrics) SetLiveContexts(n int)    { m.LiveContexts.Set(float64(n)) }
func (m *Metrics) IncContextsCreated()      { m.ContextsCreated.Inc() }
func (m *Metrics) IncHibernations()         { m.Hibernations.Inc() }
func (m *Metrics) IncLoadFailures()         { m.LoadFailures.Inc() }
func (m *Metrics) SetBadgeTotal(n int)      { m.BadgeTotal.Set(float64(n)) }
func (m *Metrics) SetActiveDownloads(n int) { m.ActiveDownloads.Set(float64(n)) }

func (m *Metrics) IncDecisions(action string) {
	m.Decisions.WithLabelValues(action).Inc()
}

func (m *Metrics) SetDownloadProgress(progress float64) {
	if progress < 0 {
		progress = 0
	}
	m.DownloadProgress.Set(progress)
}

// Serve exposes the registry on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.FromContext(ctx).Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var _ port.Metrics = (*Metrics)(nil)
