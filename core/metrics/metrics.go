// Package metrics defines the observability events of the analysis pipeline
// and the sink interface they flow into. Sinks are implemented under
// infra/metrics.
package metrics

import (
	"time"

	"github.com/quentinv/taxitrace/core/kpi"
)

// TraceLoadEvent reports one vehicle trace file being parsed.
type TraceLoadEvent struct {
	VehicleID string
	Rows      int
	Skipped   int
	Time      time.Time
}

// SegmentationEvent reports the outcome of segmenting one vehicle.
type SegmentationEvent struct {
	VehicleID    string
	Trips        int
	IdleSpans    int
	DroppedTrips int
	OccupiedKm   float64
	IdleKm       float64
	Time         time.Time
}

// TripObservation carries the per-trip values observed by histograms.
type TripObservation struct {
	VehicleID   string
	DistanceKm  float64
	DurationMin float64
	Time        time.Time
}

// Sink receives pipeline events. Implementations must be safe for use from a
// single pipeline goroutine; fan-out across backends is the MultiSink's job.
type Sink interface {
	RecordTraceLoad(TraceLoadEvent) error
	RecordSegmentation(SegmentationEvent) error
	RecordTrips([]TripObservation) error
	RecordDailyKPI([]kpi.Record) error
	RecordFleetSize(int) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordTraceLoad(TraceLoadEvent) error       { return nil }
func (NopSink) RecordSegmentation(SegmentationEvent) error { return nil }
func (NopSink) RecordTrips([]TripObservation) error        { return nil }
func (NopSink) RecordDailyKPI([]kpi.Record) error          { return nil }
func (NopSink) RecordFleetSize(int) error                  { return nil }
