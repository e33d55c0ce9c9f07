// Package app wires configuration, stores, sinks and the analysis pipeline
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	apikpi "github.com/quentinv/taxitrace/api/kpi"
	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/core/cluster"
	"github.com/quentinv/taxitrace/core/emissions"
	corekpi "github.com/quentinv/taxitrace/core/kpi"
	coremetrics "github.com/quentinv/taxitrace/core/metrics"
	"github.com/quentinv/taxitrace/core/model"
	"github.com/quentinv/taxitrace/core/predict"
	"github.com/quentinv/taxitrace/core/segment"
	"github.com/quentinv/taxitrace/core/stats"
	"github.com/quentinv/taxitrace/core/trace"
	infrakpi "github.com/quentinv/taxitrace/infra/kpi"
	"github.com/quentinv/taxitrace/infra/logger"
	"github.com/quentinv/taxitrace/infra/metrics"
	"github.com/quentinv/taxitrace/internal/eventbus"
	"github.com/quentinv/taxitrace/jobs/mileagekpi"
	"github.com/quentinv/taxitrace/pkg/export"
)

// NextPickup is the forecast location of the fleet's next pickup.
type NextPickup struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report bundles everything one pipeline run produced.
type Report struct {
	Load       trace.LoadStats   `json:"load"`
	Fleet      stats.FleetStats  `json:"fleet"`
	Emissions  emissions.Report  `json:"emissions"`
	Prediction predict.Result    `json:"prediction"`
	NextPickup *NextPickup       `json:"next_pickup,omitempty"`
	Hotspots   []cluster.Hotspot `json:"hotspots"`
}

// fleetSizeEvent carries the vehicle count over the event bus.
type fleetSizeEvent struct {
	vehicles int
}

// Service runs the trace analysis pipeline described by the configuration.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	bus   eventbus.EventBus
	sink  coremetrics.Sink
	store corekpi.Store

	sqlite *infrakpi.SQLiteStore

	report Report
	trips  []model.Trip
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL,
			cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{cfg: cfg, log: logg, bus: eventbus.New(), sink: sink}
	switch cfg.Store.Backend {
	case "sqlite":
		st, err := infrakpi.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		svc.sqlite = st
		svc.store = st
	default:
		svc.store = corekpi.NewMemoryStore()
	}
	return svc, nil
}

// Run executes the pipeline once: load traces, segment them, compute fleet
// statistics, project emissions, train the pickup predictor, cluster hotspots
// and persist the daily KPIs. The report is available afterwards.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	done := make(chan struct{})
	go s.record(sub, done)
	defer func() {
		s.bus.Unsubscribe(sub)
		<-done
	}()

	fleet, dstats, err := trace.LoadDir(s.cfg.Input.Dir)
	if err != nil {
		return fmt.Errorf("load traces: %w", err)
	}
	s.report.Load = dstats.LoadStats
	s.log.Infof("loaded %d vehicles (%d rows, %d skipped)", len(fleet), dstats.Rows, dstats.RowsSkipped)
	s.bus.Publish(fleetSizeEvent{vehicles: len(fleet)})
	now := time.Now().UTC()
	for id, fs := range dstats.PerVehicle {
		s.bus.Publish(coremetrics.TraceLoadEvent{VehicleID: id, Rows: fs.Rows, Skipped: fs.RowsSkipped, Time: now})
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	results := segment.New(s.cfg.Segmentation).Fleet(fleet)
	for _, res := range results {
		s.bus.Publish(coremetrics.SegmentationEvent{
			VehicleID:    res.VehicleID,
			Trips:        len(res.Trips),
			IdleSpans:    len(res.IdleSpans),
			DroppedTrips: res.DroppedTrips,
			OccupiedKm:   res.OccupiedKm(),
			IdleKm:       res.IdleKm(),
			Time:         now,
		})
		obs := make([]coremetrics.TripObservation, 0, len(res.Trips))
		for _, t := range res.Trips {
			obs = append(obs, coremetrics.TripObservation{
				VehicleID:   t.VehicleID,
				DistanceKm:  t.DistanceKm,
				DurationMin: t.Duration().Minutes(),
				Time:        t.Start,
			})
		}
		if len(obs) > 0 {
			s.bus.Publish(obs)
		}
	}

	s.report.Fleet = stats.Compute(results)
	s.log.Infof("segmented %d trips over %.1f km occupied, %.1f km idle",
		s.report.Fleet.Trips, s.report.Fleet.OccupiedKm, s.report.Fleet.IdleKm)

	ecfg := s.cfg.Emissions
	if ecfg.FleetSize == 0 {
		ecfg.FleetSize = len(fleet)
	}
	if ecfg.AnnualKmPerVehicle == 0 {
		ecfg.AnnualKmPerVehicle = stats.MeanDailyKm(results) * 365
	}
	s.report.Emissions, err = emissions.Project(ecfg)
	if err != nil {
		return fmt.Errorf("emissions projection: %w", err)
	}
	s.log.Infof("electrification avoids %.1f of %.1f tonnes CO2 over %d months",
		s.report.Emissions.AvoidedTonnes, s.report.Emissions.BaselineTonnes, ecfg.HorizonMonths)

	var all []model.Trip
	for _, res := range results {
		all = append(all, res.Trips...)
	}
	s.trips = segment.Pickups(all)

	mdl, predRes, err := predict.Train(s.trips, s.cfg.Prediction)
	switch {
	case err == nil:
		s.report.Prediction = predRes
		if lat, lon, perr := mdl.PredictNext(s.trips); perr == nil {
			s.report.NextPickup = &NextPickup{Lat: lat, Lon: lon}
			s.log.Infof("next pickup predicted at %.5f,%.5f (mean holdout error %.2f km)",
				lat, lon, predRes.MeanDistErrKm)
		}
	case errors.Is(err, predict.ErrTooFewPickups):
		s.log.Warnf("skipping pickup prediction: %v", err)
	default:
		return fmt.Errorf("pickup prediction: %w", err)
	}

	s.report.Hotspots, err = cluster.KMeans(cluster.Pickups(s.trips), s.cfg.Clustering)
	if err != nil {
		return fmt.Errorf("hotspot clustering: %w", err)
	}

	if err := mileagekpi.Backfill(s.store, results); err != nil {
		return fmt.Errorf("kpi backfill: %w", err)
	}
	recs, err := s.allRecords()
	if err != nil {
		return fmt.Errorf("kpi query: %w", err)
	}
	if len(recs) > 0 {
		s.bus.Publish(recs)
	}

	if s.cfg.Export.Dir != "" {
		if err := s.export(recs); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

// Serve exposes the run's results over HTTP until ctx is canceled. When
// Prometheus is enabled the metrics endpoint is served separately.
func (s *Service) Serve(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: apikpi.NewMux(s.Results(), s.store)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving results on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Report returns the results of the last Run.
func (s *Service) Report() Report { return s.report }

// Trips returns the segmented trips of the last Run, ordered by pickup time.
func (s *Service) Trips() []model.Trip { return s.trips }

// Results shapes the report for the HTTP API.
func (s *Service) Results() apikpi.Results {
	return apikpi.Results{
		Fleet:     s.report.Fleet,
		Emissions: s.report.Emissions,
		Hotspots:  s.report.Hotspots,
	}
}

// Close releases the service's resources.
func (s *Service) Close() error {
	s.bus.Close()
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	return nil
}

// record drains bus events into the metric sink until the subscription is
// closed.
func (s *Service) record(sub <-chan eventbus.Event, done chan<- struct{}) {
	defer close(done)
	for e := range sub {
		var err error
		switch ev := e.(type) {
		case coremetrics.TraceLoadEvent:
			err = s.sink.RecordTraceLoad(ev)
		case coremetrics.SegmentationEvent:
			err = s.sink.RecordSegmentation(ev)
		case []coremetrics.TripObservation:
			err = s.sink.RecordTrips(ev)
		case []corekpi.Record:
			err = s.sink.RecordDailyKPI(ev)
		case fleetSizeEvent:
			err = s.sink.RecordFleetSize(ev.vehicles)
		}
		if err != nil {
			s.log.Warnf("metric sink: %v", err)
		}
	}
}

// allRecords collects every daily KPI record in the store.
func (s *Service) allRecords() ([]corekpi.Record, error) {
	ids, err := s.store.Vehicles()
	if err != nil {
		return nil, err
	}
	var recs []corekpi.Record
	end := time.Now().UTC().Add(24 * time.Hour)
	for _, id := range ids {
		rs, err := s.store.Query(id, time.Time{}, end)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rs...)
	}
	return recs, nil
}

// export writes the run's results as JSON and CSV files.
func (s *Service) export(recs []corekpi.Record) error {
	if err := os.MkdirAll(s.cfg.Export.Dir, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(s.cfg.Export.Dir, "summary.json"), func(f *os.File) error {
		return export.WriteJSON(f, s.report)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(s.cfg.Export.Dir, "trips.csv"), func(f *os.File) error {
		return export.WriteTripsCSV(f, s.trips)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.cfg.Export.Dir, "kpi.csv"), func(f *os.File) error {
		return export.WriteKPICSV(f, recs)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
