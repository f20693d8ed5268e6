package sms

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	pkgsms "github.com/shandysiswandi/otpgate/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const confirmationTemplate = "Your login confirmation code is: %s. This code expires in %d minutes."

type Gateway struct {
	client      pkgsms.SMS
	countryCode string
	ins         instrument.Instrumentation
	dispatched  metric.Int64Counter
}

func NewGateway(client pkgsms.SMS, cfg config.Config, ins instrument.Instrumentation) *Gateway {
	g := &Gateway{
		client:      client,
		countryCode: cfg.GetString("sms.default_country_code"),
		ins:         ins,
	}

	counter, err := ins.Meter("identity.outbound.sms").Int64Counter("sms.dispatch",
		metric.WithDescription("Confirmation codes handed to the SMS provider"),
	)
	if err != nil {
		slog.Warn("failed to create sms dispatch counter", "error", err)
	}
	g.dispatched = counter

	return g
}

func (g *Gateway) SendConfirmationCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	ctx, span := g.ins.Tracer("identity.outbound.sms").Start(ctx, "SendConfirmationCode")
	defer span.End()

	minutes := int(math.Ceil(ttl.Minutes()))
	err := g.client.Send(ctx, pkgsms.Message{
		Phone: pkgsms.NormalizePhone(phone, g.countryCode),
		Text:  fmt.Sprintf(confirmationTemplate, code, minutes),
	})

	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if g.dispatched != nil {
		g.dispatched.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}

	if err != nil {
		return fmt.Errorf("sms: send to %s: %w", pkgsms.MaskPhone(phone), err)
	}

	return nil
}
