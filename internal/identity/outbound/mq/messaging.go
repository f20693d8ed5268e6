package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishPhoneChallengeIssued(ctx context.Context, msg usecase.PhoneChallengeIssuedEvent) error {
	return m.publish(ctx, "PublishPhoneChallengeIssued", event.PhoneChallengeIssuedDestination, msg.UserID, event.PhoneChallengeIssuedMessage{
		UserID:     msg.UserID,
		Phone:      msg.Phone,
		DeviceUUID: msg.DeviceUUID,
		ExpiresAt:  msg.ExpiresAt,
	})
}

func (m *Messaging) PublishPhoneConfirmed(ctx context.Context, msg usecase.PhoneConfirmedEvent) error {
	return m.publish(ctx, "PublishPhoneConfirmed", event.PhoneConfirmedDestination, msg.UserID, event.PhoneConfirmedMessage{
		UserID:     msg.UserID,
		Phone:      msg.Phone,
		DeviceUUID: msg.DeviceUUID,
	})
}

func (m *Messaging) PublishUserDeleted(ctx context.Context, msg usecase.UserDeletedEvent) error {
	return m.publish(ctx, "PublishUserDeleted", event.UserDeletedDestination, msg.UserID, event.UserDeletedMessage{
		UserID:    msg.UserID,
		DeletedBy: msg.DeletedBy,
	})
}

// publish keys messages by user id so brokers that partition keep one user's
// events in order.
func (m *Messaging) publish(ctx context.Context, op, destination string, userID int64, payload any) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, op)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(strconv.FormatInt(userID, 10)),
		OrderingKey: strconv.FormatInt(userID, 10),
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
