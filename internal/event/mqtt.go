package event

import (
	"regexp"
	"strings"
)

// MqttSubscribeConfig matches inbound broker publishes by topic pattern
// (MQTT wildcards: "#" suffix, "+" per level) and an optional body matcher.
type MqttSubscribeConfig struct {
	PoolID  string
	Topic   string
	Body    *BodyMatcher
	pattern *regexp.Regexp
}

// BodyMatcher is either an exact-string or substring test against an
// inbound message body.
type BodyMatcher struct {
	Exact    string
	Contains string
}

// Matches reports whether body satisfies this matcher. A nil matcher
// always matches.
func (m *BodyMatcher) Matches(body string) bool {
	if m == nil {
		return true
	}
	if m.Exact != "" {
		return body == m.Exact
	}
	return m.Contains != "" && strings.Contains(body, m.Contains)
}

// CompiledPattern lazily compiles Topic into the regexp used by Matches,
// translating MQTT wildcards ("#", "+") into anchored, level-aware groups.
func (c *MqttSubscribeConfig) CompiledPattern() *regexp.Regexp {
	if c.pattern == nil {
		c.pattern = compileTopicPattern(c.Topic)
	}
	return c.pattern
}

// Matches reports whether topic and body both satisfy this subscription.
func (c *MqttSubscribeConfig) Matches(topic, body string) bool {
	return c.CompiledPattern().MatchString(topic) && c.Body.Matches(body)
}

func compileTopicPattern(topic string) *regexp.Regexp {
	levels := splitLevels(topic)
	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		switch level {
		case "#":
			parts = append(parts, ".*")
		case "+":
			parts = append(parts, "[^/]+")
		default:
			parts = append(parts, regexp.QuoteMeta(level))
		}
	}
	return regexp.MustCompile("^" + strings.Join(parts, "/") + "$")
}

func splitLevels(topic string) []string {
	return strings.Split(topic, "/")
}

// MqttPublishConfig publishes a rendered (or raw payload) body to Topic.
type MqttPublishConfig struct {
	PoolID   string
	Topic    string
	Template string // optional; rendered against the template context
	Retain   bool
}

// MqttUnsubscribeConfig removes Topic's subscription from the pool.
type MqttUnsubscribeConfig struct {
	PoolID string
	Topic  string
}
