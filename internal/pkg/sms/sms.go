package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipient is returned when Message.Phone is empty.
	ErrNoRecipient = errors.New("sms: no recipient phone")
	// ErrEmptyText is returned when Message.Text is empty.
	ErrEmptyText = errors.New("sms: empty message text")
)

// Message is a single text message.
type Message struct {
	// Phone is the destination in E.164 form.
	Phone string
	// Text is the message body.
	Text string
}

func (m Message) validate() error {
	if m.Phone == "" {
		return ErrNoRecipient
	}
	if m.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// SMS abstracts an SMS provider.
type SMS interface {
	io.Closer
	// Send delivers msg and returns once the provider accepted it.
	Send(ctx context.Context, msg Message) error
}
