package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os coletores Prometheus do serviço de mídia.
// Um ponteiro nil é aceito em todos os métodos.
type Metrics struct {
	Resolutions         *prometheus.CounterVec
	ResolutionFailures  prometheus.Counter
	ResolutionDuration  prometheus.Histogram
	RegenEnqueued       prometheus.Counter
	RegenDropped        prometheus.Counter
	RegenPublished      *prometheus.CounterVec
	ConfigurationLookup *prometheus.CounterVec
}

// New registra os coletores no registerer informado.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midia_resolutions_total",
			Help: "Resoluções concluídas, por origem da variante",
		}, []string{"source"}),
		ResolutionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "midia_resolution_failures_total",
			Help: "Resoluções interrompidas por falha no armazenamento de variantes",
		}),
		ResolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "midia_resolution_duration_seconds",
			Help:    "Duração das resoluções em segundos",
			Buckets: prometheus.DefBuckets,
		}),
		RegenEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "midia_regenerations_enqueued_total",
			Help: "Pedidos de regeneração aceitos na fila local",
		}),
		RegenDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "midia_regenerations_dropped_total",
			Help: "Pedidos de regeneração descartados por fila cheia ou parada",
		}),
		RegenPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midia_regenerations_published_total",
			Help: "Pedidos de regeneração entregues ao pipeline, por resultado",
		}, []string{"result"}),
		ConfigurationLookup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midia_configuration_lookups_total",
			Help: "Consultas de configuração, por resultado do cache",
		}, []string{"result"}),
	}
}

// ObserveResolution registra a origem e a duração de uma resolução.
func (m *Metrics) ObserveResolution(source string, started time.Time) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.Resolutions.WithLabelValues(source).Inc()
	m.ResolutionDuration.Observe(time.Since(started).Seconds())
}

// ResolutionFailed contabiliza uma falha propagada.
func (m *Metrics) ResolutionFailed() {
	if m == nil {
		return
	}
	m.ResolutionFailures.Inc()
}

// RegenerationEnqueued contabiliza um pedido aceito.
func (m *Metrics) RegenerationEnqueued() {
	if m == nil {
		return
	}
	m.RegenEnqueued.Inc()
}

// RegenerationDropped contabiliza um pedido descartado.
func (m *Metrics) RegenerationDropped() {
	if m == nil {
		return
	}
	m.RegenDropped.Inc()
}

// RegenerationPublished contabiliza a entrega ao pipeline externo.
func (m *Metrics) RegenerationPublished(result string) {
	if m == nil {
		return
	}
	m.RegenPublished.WithLabelValues(result).Inc()
}

// ConfigurationLookupDone contabiliza acertos e faltas do cache de configurações.
func (m *Metrics) ConfigurationLookupDone(result string) {
	if m == nil {
		return
	}
	m.ConfigurationLookup.WithLabelValues(result).Inc()
}
