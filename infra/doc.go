// Package infra holds technical adapters: the zerolog logger, MQTT
// client, metrics exporters and error reporting. Adapters depend on
// core interfaces, never the other way around.
package infra
