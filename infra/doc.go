// Package infra contains technical adapters such as HTTP clients, the MQTT
// announcer and metrics exporters. These packages should depend only on the
// interfaces defined in the core packages.
package infra
