package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMqttSubscribeWildcards(t *testing.T) {
	cfg := &MqttSubscribeConfig{Topic: "t/#"}
	require.True(t, cfg.Matches("t/x", ""))
	require.True(t, cfg.Matches("t/x/y", ""))
	require.False(t, cfg.Matches("u/x", ""))

	levelCfg := &MqttSubscribeConfig{Topic: "t/+/z"}
	require.True(t, levelCfg.Matches("t/x/z", ""))
	require.False(t, levelCfg.Matches("t/x/y/z", ""))
}

func TestMqttSubscribeBodyMatcher(t *testing.T) {
	cfg := &MqttSubscribeConfig{Topic: "t/x", Body: &BodyMatcher{Contains: "hi"}}
	require.True(t, cfg.Matches("t/x", "hi!"))
	require.False(t, cfg.Matches("t/x", "bye"))
}
