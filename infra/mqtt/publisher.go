package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/quentinv/taxitrace/core/model"
)

// SamplePublisher streams trace samples to a broker topic per vehicle.
type SamplePublisher interface {
	PublishSample(vehicleID string, s model.Sample) error
}

type positionMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Occupied  bool    `json:"occupied"`
	Timestamp int64   `json:"timestamp"`
}

// PublishSample publishes the sample to <topic_root>/<vehicle_id>/position.
func (c *Client) PublishSample(vehicleID string, s model.Sample) error {
	msg := positionMessage{
		VehicleID: vehicleID,
		Lat:       s.Lat,
		Lon:       s.Lon,
		Occupied:  s.Occupied,
		Timestamp: s.Time.Unix(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/position", c.topicRoot, vehicleID)
	token := c.cli.Publish(topic, c.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}
