package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/quentinv/taxitrace/core/kpi"
	coremetrics "github.com/quentinv/taxitrace/core/metrics"
	"github.com/quentinv/taxitrace/infra/logger"
)

// InfluxSink writes pipeline events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTraceLoad writes the file parse outcome as a point.
func (s *InfluxSink) RecordTraceLoad(ev coremetrics.TraceLoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("trace_load").
		AddTag("vehicle_id", ev.VehicleID).
		AddField("rows", ev.Rows).
		AddField("skipped", ev.Skipped).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSegmentation writes the per-vehicle segmentation summary.
func (s *InfluxSink) RecordSegmentation(ev coremetrics.SegmentationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("segmentation").
		AddTag("vehicle_id", ev.VehicleID).
		AddField("trips", ev.Trips).
		AddField("idle_spans", ev.IdleSpans).
		AddField("dropped_trips", ev.DroppedTrips).
		AddField("occupied_km", round3(ev.OccupiedKm)).
		AddField("idle_km", round3(ev.IdleKm)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrips writes one point per trip.
func (s *InfluxSink) RecordTrips(obs []coremetrics.TripObservation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, o := range obs {
		p := write.NewPointWithMeasurement("trip").
			AddTag("vehicle_id", o.VehicleID).
			AddField("distance_km", round3(o.DistanceKm)).
			AddField("duration_min", round3(o.DurationMin)).
			SetTime(o.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordDailyKPI writes the per-vehicle daily aggregates.
func (s *InfluxSink) RecordDailyKPI(recs []kpi.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("vehicle_day").
			AddTag("vehicle_id", r.VehicleID).
			AddField("occupied_km", round3(r.OccupiedKm)).
			AddField("idle_km", round3(r.IdleKm)).
			AddField("trips", r.Trips).
			AddField("occupancy_ratio", round3(r.OccupancyRatio())).
			SetTime(r.Date)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize writes the fleet size snapshot.
func (s *InfluxSink) RecordFleetSize(size int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet").
		AddField("vehicles", size).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
