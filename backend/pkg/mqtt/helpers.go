package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// validateTopicPattern validates an MQTT topic pattern with {param} placeholders.
// Valid patterns:
// - Parameters must be in {paramName} format (e.g., home/sensors/{location})
// - Parameter names must start with a letter and contain only alphanumeric characters and underscores
// - Multi-level wildcards '#' are NOT supported for explicitness.
func validateTopicPattern(topic string) error {
	if topic == "" {
		return errors.New("topic cannot be empty")
	}

	if strings.HasPrefix(topic, "/") {
		return errors.New("leading slash is not allowed")
	}

	if strings.HasSuffix(topic, "/") {
		return errors.New("trailing slash is not allowed")
	}

	for segment := range strings.SplitSeq(topic, "/") {
		if segment == "" {
			return errors.New("empty segments are not allowed")
		}

		if strings.Contains(segment, "#") {
			return errors.New("multi-level wildcard '#' is not supported - use explicit parameters {param} instead")
		}

		if strings.Contains(segment, "+") {
			return errors.New("wildcard '+' is not supported - use parameter syntax {param} instead")
		}

		if name, ok := paramName(segment); ok {
			if !isValidParameterName(name) {
				return fmt.Errorf("invalid parameter name '%s' - must start with a letter and contain only alphanumeric characters and underscores", name)
			}
		} else if strings.ContainsAny(segment, "{}") {
			return errors.New("invalid parameter syntax - use {paramName} format")
		}
	}

	return nil
}

// paramName returns the parameter name of a {name} segment.
func paramName(segment string) (string, bool) {
	if len(segment) < 2 || segment[0] != '{' || segment[len(segment)-1] != '}' {
		return "", false
	}

	return segment[1 : len(segment)-1], true
}

func isValidParameterName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 {
			if !isLetter {
				return false
			}

			continue
		}

		if !isLetter && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// topicParamNames lists the parameter names of a validated pattern in order.
func topicParamNames(topic string) []string {
	var names []string

	for segment := range strings.SplitSeq(topic, "/") {
		if name, ok := paramName(segment); ok {
			names = append(names, name)
		}
	}

	return names
}

// convertTopicToMQTT converts a parameterized topic (home/sensors/{location})
// to an MQTT wildcard pattern (home/sensors/+).
func convertTopicToMQTT(topic string) string {
	segments := strings.Split(topic, "/")
	for i, segment := range segments {
		if _, ok := paramName(segment); ok {
			segments[i] = "+"
		}
	}

	return strings.Join(segments, "/")
}

// MatchTopic matches a concrete topic against a parameterized pattern and
// returns the parameter values. Empty parameter values do not match.
func MatchTopic(pattern, topic string) (map[string]string, bool) {
	want := strings.Split(pattern, "/")
	got := strings.Split(topic, "/")

	if len(want) != len(got) {
		return nil, false
	}

	params := make(map[string]string)

	for i, segment := range want {
		name, isParam := paramName(segment)
		switch {
		case isParam:
			if got[i] == "" {
				return nil, false
			}

			params[name] = got[i]
		case segment != got[i]:
			return nil, false
		}
	}

	return params, true
}

// FillTopic substitutes every {param} in pattern. Values must be non-empty
// and must not contain MQTT separators or wildcards.
func FillTopic(pattern string, params map[string]string) (string, error) {
	segments := strings.Split(pattern, "/")

	for i, segment := range segments {
		name, ok := paramName(segment)
		if !ok {
			continue
		}

		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("missing value for topic parameter %s", name)
		}

		if strings.ContainsAny(value, "/+#") {
			return "", fmt.Errorf("invalid value %q for topic parameter %s", value, name)
		}

		segments[i] = value
	}

	return strings.Join(segments, "/"), nil
}

// validateQoS validates a QoS level.
func validateQoS(qos QoS) error {
	if qos != QoSAtMostOnce && qos != QoSAtLeastOnce && qos != QoSExactlyOnce {
		return errors.New("qos must be 0, 1, or 2")
	}

	return nil
}

// validateTopicParameters checks that every parameter in topic is documented
// and every documented parameter appears in topic.
func validateTopicParameters(topic string, topicParams []TopicParameter) error {
	params := map[string]struct{}{}
	for _, name := range topicParamNames(topic) {
		params[name] = struct{}{}
	}

	documented := map[string]struct{}{}

	for _, p := range topicParams {
		if p.Name == "" {
			return fmt.Errorf("parameter name required for topic %s", topic)
		}

		if p.Description == "" {
			return fmt.Errorf("parameter Description required for topic %s", topic)
		}

		if _, exists := params[p.Name]; !exists {
			return fmt.Errorf("documented parameter %s not found in topic", p.Name)
		}

		documented[p.Name] = struct{}{}
	}

	for name := range params {
		if _, exists := documented[name]; !exists {
			return fmt.Errorf("topic parameter %s not documented", name)
		}
	}

	return nil
}

func validateCommon(operationID, summary, group string, qos QoS) error {
	if operationID == "" {
		return errors.New("operationID is required")
	}

	if summary == "" {
		return errors.New("summary is required")
	}

	if group == "" {
		return errors.New("group is required")
	}

	return validateQoS(qos)
}

// validatePublicationSpec checks a publication spec before registration.
func (mb *MQTTBuilder) validatePublicationSpec(spec PublicationSpec) error {
	return validateCommon(spec.OperationID, spec.Summary, spec.Group, spec.QoS)
}

// validateSubscriptionSpec checks a subscription spec before registration.
func (mb *MQTTBuilder) validateSubscriptionSpec(spec SubscriptionSpec) error {
	if err := validateCommon(spec.OperationID, spec.Summary, spec.Group, spec.QoS); err != nil {
		return err
	}

	if spec.Handler == nil {
		return errors.New("handler is required")
	}

	return nil
}
