package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quentinv/taxitrace/core/kpi"
	coremetrics "github.com/quentinv/taxitrace/core/metrics"
)

// PromSink records pipeline events in Prometheus metrics.
type PromSink struct {
	rows     *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	trips    *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	distance prometheus.Histogram
	duration prometheus.Histogram
	fleet    prometheus.Gauge
}

// NewPromSink registers pipeline metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_rows_total",
		Help: "Total number of trace rows parsed",
	}, []string{"vehicle_id"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_rows_skipped_total",
		Help: "Total number of malformed trace rows skipped",
	}, []string{"vehicle_id"})
	trips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_segmented_total",
		Help: "Total number of trips produced by segmentation",
	}, []string{"vehicle_id"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trips_dropped_total",
		Help: "Total number of trips dropped by the duration filter",
	}, []string{"vehicle_id"})
	distance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_distance_km",
		Help:    "Distribution of trip distances",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50},
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_duration_minutes",
		Help:    "Distribution of trip durations",
		Buckets: []float64{2, 5, 10, 20, 30, 50},
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_total",
		Help: "Number of vehicles with usable traces",
	})

	s := &PromSink{rows: rows, skipped: skipped, trips: trips, dropped: dropped,
		distance: distance, duration: duration, fleet: fleet}
	for _, c := range []prometheus.Collector{rows, skipped, trips, dropped, distance, duration, fleet} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordTraceLoad counts parsed and skipped rows per vehicle.
func (s *PromSink) RecordTraceLoad(ev coremetrics.TraceLoadEvent) error {
	s.rows.WithLabelValues(ev.VehicleID).Add(float64(ev.Rows))
	s.skipped.WithLabelValues(ev.VehicleID).Add(float64(ev.Skipped))
	return nil
}

// RecordSegmentation counts trips and drops per vehicle.
func (s *PromSink) RecordSegmentation(ev coremetrics.SegmentationEvent) error {
	s.trips.WithLabelValues(ev.VehicleID).Add(float64(ev.Trips))
	s.dropped.WithLabelValues(ev.VehicleID).Add(float64(ev.DroppedTrips))
	return nil
}

// RecordTrips observes per-trip distance and duration histograms.
func (s *PromSink) RecordTrips(obs []coremetrics.TripObservation) error {
	for _, o := range obs {
		s.distance.Observe(o.DistanceKm)
		s.duration.Observe(o.DurationMin)
	}
	return nil
}

// RecordDailyKPI is a no-op for Prometheus; daily aggregates live in the KPI
// store and InfluxDB.
func (s *PromSink) RecordDailyKPI([]kpi.Record) error { return nil }

// RecordFleetSize sets the fleet gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
