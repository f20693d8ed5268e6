package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverGooglePubSub selects the Google Pub/Sub backend.
	DriverGooglePubSub = "google-pubsub"
	// DriverNone discards published messages. An empty driver name means none.
	DriverNone = "none"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends.
// Only the section of the selected driver is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type builder func(ctx context.Context, opts FactoryOptions) (Messaging, error)

var builders = map[string]builder{
	DriverNone: func(context.Context, FactoryOptions) (Messaging, error) {
		return NewNoop(), nil
	},
	DriverNSQ: func(_ context.Context, opts FactoryOptions) (Messaging, error) {
		return NewNSQ(opts.NSQ)
	},
	DriverKafka: func(_ context.Context, opts FactoryOptions) (Messaging, error) {
		return NewKafka(opts.Kafka)
	},
	DriverNATS: func(_ context.Context, opts FactoryOptions) (Messaging, error) {
		return NewNATS(opts.NATS)
	},
	DriverGooglePubSub: func(ctx context.Context, opts FactoryOptions) (Messaging, error) {
		return NewPubSub(ctx, opts.PubSub)
	},
}

// Drivers lists the accepted driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(builders)
	slices.Sort(names)
	return names
}

// NewFromDriver constructs a Messaging implementation by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverNone
	}

	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, want one of %s", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}

	return build(ctx, opts)
}
