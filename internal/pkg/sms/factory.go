package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverLog selects the slog driver.
	DriverLog = "log"
	// DriverSNS selects the Amazon SNS driver.
	DriverSNS = "sns"
)

// ErrUnknownDriver indicates an unsupported SMS driver.
var ErrUnknownDriver = errors.New("sms: unknown driver")

// FactoryOptions groups configuration for SMS drivers.
type FactoryOptions struct {
	// SNS configures the SNS driver.
	SNS SNSOptions
}

// NewFromDriver constructs an SMS implementation by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (SMS, error) {
	switch strings.ToLower(driver) {
	case DriverLog, "":
		return NewLog(), nil
	case DriverSNS:
		return NewSNS(ctx, opts.SNS)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
