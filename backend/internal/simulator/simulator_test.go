package simulator

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"sensor-dashboard/backend/internal/ingest"

	"github.com/stretchr/testify/require"
)

func TestParseSensors(t *testing.T) {
	t.Parallel()

	sensors, err := ParseSensors([]string{"temp@kitchen", "SHT31@cellar"})
	require.NoError(t, err)
	require.Len(t, sensors, 2)
	require.Equal(t, "SHT31", sensors[1].Type)
	require.Equal(t, "cellar", sensors[1].Location)
	require.Equal(t, uint32(100), sensors[0].Battery)

	for _, bad := range [][]string{
		nil,
		{"kitchen"},
		{"@kitchen"},
		{"temp@"},
		{"temp@home/kitchen"},
		{"temp@kitchen", "temp@kitchen"},
	} {
		_, err := ParseSensors(bad)
		require.ErrorIs(t, err, ErrInvalidSensor, bad)
	}
}

func TestStepStaysInRange(t *testing.T) {
	t.Parallel()

	s := &Sensor{Type: "temp", Location: "kitchen", Temperature: 49.9, Humidity: 99.5, Battery: 1}
	r := rand.New(rand.NewPCG(1, 2))

	for range 1000 {
		reading := s.Step(r)
		require.Equal(t, "temp", reading.Sen)
		require.LessOrEqual(t, reading.Temp, float32(50))
		require.GreaterOrEqual(t, reading.Hum, float32(0))
		require.LessOrEqual(t, reading.Hum, float32(100))
		require.NotNil(t, reading.Battery)
	}

	require.Equal(t, uint32(0), s.Battery)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(operationID string, params map[string]string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if operationID != ingest.PublishReadingOperation {
		panic("unexpected operation " + operationID)
	}

	if _, ok := payload.(ingest.Reading); !ok {
		panic("unexpected payload type")
	}

	p.topics = append(p.topics, params["location"])

	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.topics)
}

func TestRunPublishesEverySensor(t *testing.T) {
	t.Parallel()

	sensors, err := ParseSensors([]string{"temp@kitchen", "temp@cellar"})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), pub, sensors, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return pub.count() >= 4 }, 5*time.Second, time.Millisecond)
	cancel()
	<-done

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Equal(t, []string{"kitchen", "cellar"}, pub.topics[:2])
}
