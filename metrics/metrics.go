package metrics

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"record-mapper/internal/common"
	"record-mapper/mapper"
)

// Metrics is a mapper.Observer that counts mapped objects and skipped fields.
type Metrics struct {
	ObjectsMapped *prometheus.CounterVec
	FieldsSkipped *prometheus.CounterVec
}

var _ mapper.Observer = (*Metrics)(nil)

// New creates the counters and registers them with reg. A nil reg means
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		ObjectsMapped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recmap_objects_mapped_total",
			Help: "Total number of objects populated from or extracted to records",
		}, []string{"type", "direction"}),
		FieldsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recmap_fields_skipped_total",
			Help: "Total number of fields left unchanged or omitted, by reason",
		}, []string{"type", "direction", "reason"}),
	}
}

// FieldSkipped records a skipped field.
func (m *Metrics) FieldSkipped(ev mapper.SkipEvent) {
	m.FieldsSkipped.WithLabelValues(typeLabel(ev.Type), ev.Direction.String(), string(ev.Reason)).Inc()
}

// ObjectMapped records one mapped object.
func (m *Metrics) ObjectMapped(t reflect.Type, d mapper.Direction) {
	m.ObjectsMapped.WithLabelValues(typeLabel(t), d.String()).Inc()
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return common.UnknownStr
	}

	return t.String()
}
