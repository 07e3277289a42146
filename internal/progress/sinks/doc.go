// Package sinks implements concrete progress consumers: structured logging,
// Prometheus counters, and the in-memory run snapshot served by the API.
package sinks
