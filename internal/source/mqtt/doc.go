// Package mqtt is the MQTT source executor and the dispatcher's MqttPort
// implementation. It owns one paho.mqtt.golang client per configured pool
// entry, walks the catalog for a matching MqttSubscribe on every inbound
// Publish, and exposes Publish/Unsubscribe for the dispatcher's
// MqttPublish/MqttUnsubscribe actions.
//
// Grounded on the MQTT client wiring in other_examples (kennedn-restate-go
// frigate.go and edgeflare-pgo peer.go), generalized from their
// single-broker clients to the pool-keyed registry this system needs.
package mqtt
