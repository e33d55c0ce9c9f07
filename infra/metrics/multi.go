package metrics

import (
	"github.com/quentinv/taxitrace/core/kpi"
	coremetrics "github.com/quentinv/taxitrace/core/metrics"
)

// MultiSink fans pipeline events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTraceLoad forwards to all sinks, returning the first error.
func (m *MultiSink) RecordTraceLoad(ev coremetrics.TraceLoadEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTraceLoad(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSegmentation forwards to all sinks.
func (m *MultiSink) RecordSegmentation(ev coremetrics.SegmentationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSegmentation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrips forwards to all sinks.
func (m *MultiSink) RecordTrips(obs []coremetrics.TripObservation) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrips(obs); err != nil {
			return err
		}
	}
	return nil
}

// RecordDailyKPI forwards to all sinks.
func (m *MultiSink) RecordDailyKPI(recs []kpi.Record) error {
	for _, s := range m.Sinks {
		if err := s.RecordDailyKPI(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards to all sinks.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if err := s.RecordFleetSize(size); err != nil {
			return err
		}
	}
	return nil
}
