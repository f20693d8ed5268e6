// Package messaging publishes domain events to a broker.
//
// Business code depends on the Publisher interface only, so the broker (NSQ,
// NATS, Kafka, Google Pub/Sub) is chosen by configuration. The Noop driver
// discards messages for deployments without a broker.
package messaging
