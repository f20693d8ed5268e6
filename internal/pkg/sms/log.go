package sms

import (
	"context"
	"log/slog"
)

// Log is an SMS implementation that only writes to slog.
//
// The message text is logged because it is the only way to read a code when
// running locally. Do not select this driver in production.
type Log struct{}

// NewLog returns the log driver.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.validate(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "sms dispatched to log driver", "to", MaskPhone(msg.Phone), "text", msg.Text)
	return nil
}

func (l *Log) Close() error {
	return nil
}
