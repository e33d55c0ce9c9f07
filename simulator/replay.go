package simulator

import (
	"context"
	"sort"
	"time"

	"github.com/quentinv/taxitrace/core/model"
	"github.com/quentinv/taxitrace/core/trace"
	"github.com/quentinv/taxitrace/infra/logger"
	"github.com/quentinv/taxitrace/infra/mqtt"
)

type timedSample struct {
	vehicleID string
	sample    model.Sample
}

// Replay streams the fleet's samples to the publisher in recording order,
// sleeping the inter-sample deltas divided by speedup. It stops early when
// ctx is canceled.
func Replay(ctx context.Context, fleet trace.Fleet, pub mqtt.SamplePublisher, speedup float64, log logger.Logger) error {
	if speedup <= 0 {
		speedup = 1
	}
	var stream []timedSample
	for id, samples := range fleet {
		for _, s := range samples {
			stream = append(stream, timedSample{vehicleID: id, sample: s})
		}
	}
	sort.Slice(stream, func(i, j int) bool {
		return stream[i].sample.Time.Before(stream[j].sample.Time)
	})

	for i, ts := range stream {
		if i > 0 {
			delta := ts.sample.Time.Sub(stream[i-1].sample.Time)
			wait := time.Duration(float64(delta) / speedup)
			select {
			case <-ctx.Done():
				log.Infof("replay canceled after %d samples", i)
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := pub.PublishSample(ts.vehicleID, ts.sample); err != nil {
			return err
		}
	}
	log.Infof("replay finished: %d samples", len(stream))
	return nil
}
