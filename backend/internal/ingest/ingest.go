// Package ingest turns MQTT sensor messages into engine ingestions.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
	"sensor-dashboard/backend/pkg/mqtt"
	"sensor-dashboard/backend/pkg/utils"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	SubscribeReadingsOperation = "subscribeReadings"
	PublishReadingOperation    = "publishReading"

	journalTimeout = 2 * time.Second
)

var ErrInvalidReading = errors.New("invalid reading")

// Stats counts messages seen by the handler.
type Stats struct {
	Received uint64 `json:"received"`
	Dropped  uint64 `json:"dropped"`
}

// Handler decodes readings and feeds them to the engine.
type Handler struct {
	l       *slog.Logger
	engine  *aggregate.Engine
	sel     *selection.Selector
	journal journal.Journal
	topic   string
	now     func() time.Time

	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewHandler creates a handler for readings published under prefix.
func NewHandler(l *slog.Logger, engine *aggregate.Engine, sel *selection.Selector, j journal.Journal, prefix string) *Handler {
	if j == nil {
		j = journal.Nop{}
	}

	return &Handler{
		l:       l.With(slog.String("component", "ingest")),
		engine:  engine,
		sel:     sel,
		journal: j,
		topic:   ReadingsTopic(prefix),
		now:     time.Now,
	}
}

// Topic returns the parameterized readings topic.
func (h *Handler) Topic() string {
	return h.topic
}

func (h *Handler) Stats() Stats {
	return Stats{
		Received: h.received.Load(),
		Dropped:  h.dropped.Load(),
	}
}

// RegisterReadingsSubscribe registers the readings subscription.
func (h *Handler) RegisterReadingsSubscribe(mb *mqtt.MQTTBuilder) {
	mb.MustRegisterSubscribe(h.topic, mqtt.SubscriptionSpec{
		OperationID: SubscribeReadingsOperation,
		Summary:     "Subscribe to sensor readings",
		Group:       "Telemetry",
		TopicParameters: []mqtt.TopicParameter{
			{
				Name:        "location",
				Description: "Where the sensor is placed, matches any location",
			},
		},
		Handler: h.handleReading,
		QoS:     mqtt.QoSAtLeastOnce,
	})
}

// ReadingsTopic is the parameterized topic readings are published on.
func ReadingsTopic(prefix string) string {
	return strings.Trim(prefix, "/") + "/{location}"
}

// RegisterReadingsPublish registers the readings publication for publishers
// such as the simulator.
func RegisterReadingsPublish(mb *mqtt.MQTTBuilder, prefix string) {
	mb.MustRegisterPublish(ReadingsTopic(prefix), mqtt.PublicationSpec{
		OperationID: PublishReadingOperation,
		Summary:     "Publish a sensor reading",
		Group:       "Telemetry",
		TopicParameters: []mqtt.TopicParameter{
			{
				Name:        "location",
				Description: "Where the sensor is placed",
			},
		},
		QoS: mqtt.QoSAtMostOnce,
	})
}

func (h *Handler) handleReading(_ pahomqtt.Client, msg pahomqtt.Message) {
	if _, err := h.Process(msg.Topic(), msg.Payload()); err != nil {
		h.l.Warn("Dropped reading", slog.String("topic", msg.Topic()), utils.ErrAttr(err))
	}
}

// Process decodes one message and ingests it. Invalid messages are counted
// and returned as errors wrapping ErrInvalidReading.
func (h *Handler) Process(topic string, payload []byte) (aggregate.SensorID, error) {
	h.received.Add(1)

	key, sample, battery, err := h.decode(topic, payload)
	if err != nil {
		h.dropped.Add(1)
		return 0, err
	}

	id := h.engine.Ingest(key, sample, battery)

	if h.sel != nil {
		h.sel.Observe(id)
	}

	if h.journal.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()

		err := h.journal.Append(ctx, journal.Entry{
			SensorID:    id,
			Type:        key.Type,
			Location:    key.Location,
			Temperature: sample.Temperature,
			Humidity:    sample.Humidity,
			Battery:     battery,
			ReceivedAt:  sample.Time,
		})
		if err != nil {
			h.l.Error("Failed to journal reading", slog.String("sensor", key.String()), utils.ErrAttr(err))
		}
	}

	h.l.Debug("Ingested reading",
		slog.Uint64("sensorID", uint64(id)),
		slog.String("sensor", key.String()),
		slog.Float64("temperature", float64(sample.Temperature)),
		slog.Float64("humidity", float64(sample.Humidity)))

	return id, nil
}

func (h *Handler) decode(topic string, payload []byte) (aggregate.SensorKey, aggregate.Sample, *uint32, error) {
	params, ok := mqtt.MatchTopic(h.topic, topic)
	if !ok {
		return aggregate.SensorKey{}, aggregate.Sample{}, nil, fmt.Errorf("%w: topic %q does not match %q", ErrInvalidReading, topic, h.topic)
	}

	if len(payload) == 0 {
		return aggregate.SensorKey{}, aggregate.Sample{}, nil, fmt.Errorf("%w: empty payload", ErrInvalidReading)
	}

	reading, err := utils.FromJSON[Reading](payload)
	if err != nil {
		return aggregate.SensorKey{}, aggregate.Sample{}, nil, fmt.Errorf("%w: %w", ErrInvalidReading, err)
	}

	key := aggregate.SensorKey{
		Type:     strings.TrimSpace(reading.Sen),
		Location: params["location"],
	}

	if key.Type == "" {
		return aggregate.SensorKey{}, aggregate.Sample{}, nil, fmt.Errorf("%w: missing sensor type", ErrInvalidReading)
	}

	if !finite(reading.Temp) || !finite(reading.Hum) {
		return aggregate.SensorKey{}, aggregate.Sample{}, nil, fmt.Errorf("%w: non-finite value", ErrInvalidReading)
	}

	sample := aggregate.Sample{
		Temperature: reading.Temp,
		Humidity:    reading.Hum,
		Time:        h.now(),
	}

	return key, sample, reading.Battery, nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
