package ingest

import (
	"net"
	"testing"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/pkg/mqtt"
	"sensor-dashboard/backend/pkg/utils"

	mqttbroker "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := mqttbroker.New(&mqttbroker.Options{Logger: discardLogger()})
	require.NoError(t, server.AddHook(new(auth.AllowHook), nil))
	require.NoError(t, server.AddListener(listeners.NewTCP(listeners.Config{ID: "test", Address: addr})))
	require.NoError(t, server.Serve())

	t.Cleanup(func() { _ = server.Close() })

	return addr
}

func TestBrokerRoundTrip(t *testing.T) {
	t.Parallel()

	addr := startBroker(t)
	h, engine, _ := newTestHandler(t, nil)

	mb, err := mqtt.NewMQTTBuilder(discardLogger(), mqtt.MQTTClientOptions{
		BrokerURL: "tcp://" + addr,
		ClientID:  "ingest-test-" + utils.NewUUID(),
	})
	require.NoError(t, err)

	h.RegisterReadingsSubscribe(mb)
	RegisterReadingsPublish(mb, "home/sensors")

	require.NoError(t, mb.Connect(t.Context()))
	t.Cleanup(mb.Disconnect)

	require.Eventually(t, mb.IsConnected, 5*time.Second, 10*time.Millisecond)

	for _, temp := range []float32{20, 24} {
		err := mb.Client().Publish(PublishReadingOperation,
			map[string]string{"location": "kitchen"},
			Reading{Sen: "SHT31", Temp: temp, Hum: 50, Battery: utils.Ptr(uint32(90))})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		vm, ok := engine.Lookup(1)
		return ok && len(vm.Datapoints) == 1
	}, 5*time.Second, 10*time.Millisecond)

	vm := engine.Snapshot(1)
	require.Equal(t, aggregate.SensorKey{Type: "SHT31", Location: "kitchen"}, aggregate.SensorKey{Type: vm.Type, Location: vm.Location})
	require.InDelta(t, 22, vm.Datapoints[0].Temperature, 1e-6)
	require.Equal(t, uint64(2), h.Stats().Received)
}
