package prometheus

import (
	"fmt"
	"net/http"
	"strings"

	authsvc "github.com/campuscare/authsvc"
	"github.com/campuscare/authsvc/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() authsvc.MetricsSnapshot
}

// PrometheusExporter renders engine metrics in Prometheus text exposition
// format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates an exporter that reads from the given
// [authsvc.Engine].
func NewPrometheusExporter(engine *authsvc.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates an exporter from a custom
// snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves the exposition text.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current counters in Prometheus text exposition format.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	if len(snapshot.Counters) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range internaldefs.CounterDefs {
		help := strings.NewReplacer("\\", "\\\\", "\n", "\\n").Replace(def.Help)
		fmt.Fprintf(&b, "# HELP %s %s\n", def.Name, help)
		fmt.Fprintf(&b, "# TYPE %s counter\n", def.Name)
		fmt.Fprintf(&b, "%s %d\n", def.Name, snapshot.Counters[def.ID])
	}

	return b.String()
}
