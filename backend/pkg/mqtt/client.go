package mqtt

import (
	"fmt"

	"sensor-dashboard/backend/pkg/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTTClient struct {
	client  mqtt.Client
	builder *MQTTBuilder
}

// Publish serializes payload as JSON and sends it on the topic of the
// publication identified by operationID, with params filled into the pattern.
func (c *MQTTClient) Publish(operationID string, params map[string]string, payload any) error {
	pub, ok := c.builder.publications[operationID]
	if !ok {
		return fmt.Errorf("publication not found for operationID %s", operationID)
	}

	topic, err := FillTopic(pub.Topic, params)
	if err != nil {
		return fmt.Errorf("failed to build topic for operationID %s: %w", operationID, err)
	}

	bytes, err := utils.ToJSON(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	token := c.client.Publish(topic, byte(pub.QoS), pub.Retained, bytes)
	token.Wait()

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	return nil
}
