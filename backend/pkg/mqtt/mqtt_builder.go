package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"sensor-dashboard/backend/pkg/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTBuilder provides a fluent API for registering MQTT publications and subscriptions.
type MQTTBuilder struct {
	client        mqtt.Client
	wrappedClient *MQTTClient
	l             *slog.Logger
	publications  map[string]*PublicationSpec
	subscriptions map[string]*SubscriptionSpec
	connected     atomic.Bool

	runConnectOnce atomic.Bool
}

// MQTTClientOptions contains configuration for creating an MQTT client.
type MQTTClientOptions struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

// NewMQTTBuilder creates a new MQTT builder with the given broker configuration.
func NewMQTTBuilder(l *slog.Logger, opts MQTTClientOptions) (*MQTTBuilder, error) {
	l = l.With(slog.String("component", "mqtt-builder"))

	if opts.BrokerURL == "" {
		return nil, errors.New("broker URL is required")
	}

	if opts.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	mb := &MQTTBuilder{
		l:             l,
		publications:  make(map[string]*PublicationSpec),
		subscriptions: make(map[string]*SubscriptionSpec),
	}

	clientOpts := mqtt.NewClientOptions()
	clientOpts.AddBroker(opts.BrokerURL)
	clientOpts.SetClientID(opts.ClientID)

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
	}

	if opts.Password != "" {
		clientOpts.SetPassword(opts.Password)
	}

	// Retry every 5 seconds, max interval 15 seconds
	clientOpts.SetAutoReconnect(true)
	clientOpts.SetConnectRetry(true)
	clientOpts.SetConnectTimeout(5 * time.Second)
	clientOpts.SetConnectRetryInterval(5 * time.Second)
	clientOpts.SetMaxReconnectInterval(15 * time.Second)
	clientOpts.SetKeepAlive(30 * time.Second)

	// Subscriptions are replayed in onConnect, so a fresh session is fine.
	clientOpts.SetCleanSession(true)

	clientOpts.SetOnConnectHandler(mb.onConnect)
	clientOpts.SetConnectionLostHandler(mb.onConnectionLost)
	clientOpts.SetReconnectingHandler(mb.onReconnecting)

	mb.client = mqtt.NewClient(clientOpts)
	mb.wrappedClient = &MQTTClient{
		client:  mb.client,
		builder: mb,
	}

	l.Info("MQTT builder created", slog.String("broker", opts.BrokerURL), slog.String("clientID", opts.ClientID))

	return mb, nil
}

// Client returns the publishing client.
func (mb *MQTTBuilder) Client() *MQTTClient {
	return mb.wrappedClient
}

// IsConnected reports whether the broker connection is currently up.
func (mb *MQTTBuilder) IsConnected() bool {
	return mb.connected.Load()
}

// RegisterPublish registers a publication operation.
func (mb *MQTTBuilder) RegisterPublish(topic string, spec PublicationSpec) error {
	if mb.runConnectOnce.Load() {
		return errors.New("cannot register publication after connecting to MQTT broker")
	}

	if err := validateTopicPattern(topic); err != nil {
		return fmt.Errorf("invalid topic pattern: %w", err)
	}

	if err := mb.validatePublicationSpec(spec); err != nil {
		return fmt.Errorf("invalid publication spec: %w", err)
	}

	if mb.hasOperation(spec.OperationID) {
		return fmt.Errorf("duplicate operationID: %s", spec.OperationID)
	}

	if err := validateTopicParameters(topic, spec.TopicParameters); err != nil {
		return fmt.Errorf("invalid topic parameters in operationID %s: %w", spec.OperationID, err)
	}

	spec.Topic = topic
	spec.TopicMQTT = convertTopicToMQTT(topic)
	mb.publications[spec.OperationID] = &spec

	mb.l.Info("Registered MQTT publication", slog.String("operationID", spec.OperationID), slog.String("topic", topic), slog.String("group", spec.Group))

	return nil
}

// MustRegisterPublish registers a publication operation and terminates the program if an error occurs.
func (mb *MQTTBuilder) MustRegisterPublish(topic string, spec PublicationSpec) {
	if err := mb.RegisterPublish(topic, spec); err != nil {
		mb.l.Error("Failed to register publication", slog.String("operationID", spec.OperationID), slog.String("topic", topic), slog.String("group", spec.Group), utils.ErrAttr(err))
		os.Exit(1)
	}
}

// RegisterSubscribe registers a subscription operation.
func (mb *MQTTBuilder) RegisterSubscribe(topic string, spec SubscriptionSpec) error {
	if mb.runConnectOnce.Load() {
		return errors.New("cannot register subscription after connecting to MQTT broker")
	}

	if err := validateTopicPattern(topic); err != nil {
		return fmt.Errorf("invalid topic pattern: %w", err)
	}

	if err := mb.validateSubscriptionSpec(spec); err != nil {
		return fmt.Errorf("invalid subscription spec: %w", err)
	}

	if mb.hasOperation(spec.OperationID) {
		return fmt.Errorf("duplicate operationID: %s", spec.OperationID)
	}

	if err := validateTopicParameters(topic, spec.TopicParameters); err != nil {
		return fmt.Errorf("invalid topic parameters in operationID %s: %w", spec.OperationID, err)
	}

	spec.Topic = topic
	spec.TopicMQTT = convertTopicToMQTT(topic)
	mb.subscriptions[spec.OperationID] = &spec

	mb.l.Info("Registered MQTT subscription", slog.String("operationID", spec.OperationID), slog.String("topic", topic), slog.String("group", spec.Group))

	return nil
}

// MustRegisterSubscribe registers a subscription operation and terminates the program if an error occurs.
func (mb *MQTTBuilder) MustRegisterSubscribe(topic string, spec SubscriptionSpec) {
	if err := mb.RegisterSubscribe(topic, spec); err != nil {
		mb.l.Error("Failed to register subscription", slog.String("operationID", spec.OperationID), slog.String("topic", topic), slog.String("group", spec.Group), utils.ErrAttr(err))
		os.Exit(1)
	}
}

func (mb *MQTTBuilder) hasOperation(operationID string) bool {
	_, isPub := mb.publications[operationID]
	_, isSub := mb.subscriptions[operationID]

	return isPub || isSub
}

// Connect connects to the MQTT broker. It waits until the first connection
// succeeds or ctx is done; paho keeps retrying in the background either way.
func (mb *MQTTBuilder) Connect(ctx context.Context) error {
	mb.runConnectOnce.Store(true)

	mb.l.Info("Connecting to MQTT broker...")

	token := mb.client.Connect()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for MQTT broker: %w", ctx.Err())
		case <-ticker.C:
			mb.l.Warn("MQTT has not done an initial connection yet, still waiting...")
		case <-token.Done():
			if err := token.Error(); err != nil {
				return fmt.Errorf("failed to connect to MQTT broker: %w", err)
			}

			mb.l.Info("Connected to MQTT broker")

			return nil
		}
	}
}

// Disconnect disconnects from the MQTT broker.
func (mb *MQTTBuilder) Disconnect() {
	if !mb.client.IsConnected() {
		return
	}

	mb.l.Info("Disconnecting from MQTT broker...")
	mb.client.Disconnect(250) // 250ms grace period
	mb.connected.Store(false)
	mb.l.Info("Disconnected from MQTT broker")
}

// onConnect is called when the client successfully connects or reconnects to the broker.
func (mb *MQTTBuilder) onConnect(client mqtt.Client) {
	mb.l.Info("Connected to MQTT broker, subscribing to topics", slog.Int("subscriptionCount", len(mb.subscriptions)))

	for _, spec := range mb.subscriptions {
		token := client.Subscribe(spec.TopicMQTT, byte(spec.QoS), spec.Handler)
		token.Wait()

		if err := token.Error(); err != nil {
			mb.l.Error("Failed to subscribe", slog.String("topic", spec.TopicMQTT), slog.String("operationID", spec.OperationID), utils.ErrAttr(err))
			continue
		}

		mb.l.Info("Subscribed", slog.String("topic", spec.TopicMQTT), slog.String("operationID", spec.OperationID))
	}

	// Marked connected only once subscriptions are in place.
	mb.connected.Store(true)
}

// onConnectionLost is called when the client loses connection to the broker.
func (mb *MQTTBuilder) onConnectionLost(_ mqtt.Client, err error) {
	mb.l.Warn("Connection to MQTT broker lost", utils.ErrAttr(err))
	mb.connected.Store(false)
}

// onReconnecting is called when the client is reconnecting to the broker.
func (mb *MQTTBuilder) onReconnecting(_ mqtt.Client, opts *mqtt.ClientOptions) {
	mb.l.Info("Reconnecting to MQTT broker", slog.String("broker", opts.Servers[0].String()))
}
