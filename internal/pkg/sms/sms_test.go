package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "already international", phone: "+1 415 555 0100", want: "+1 415 555 0100"},
		{name: "eleven digit mobile", phone: "(11) 99999-0000", want: "+5511999990000"},
		{name: "ten digit landline", phone: "11 3333-4444", want: "+551133334444"},
		{name: "too short stays digits", phone: "999-000", want: "999000"},
		{name: "too long stays digits", phone: "0055 11 99999 0000", want: "005511999990000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone, ""); got != tt.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneCountryCode(t *testing.T) {
	if got := NormalizePhone("4155550100", "1"); got != "+14155550100" {
		t.Fatalf("NormalizePhone() = %q", got)
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("+5511999990000"); got != "**********0000" {
		t.Fatalf("MaskPhone() = %q", got)
	}
	if got := MaskPhone("123"); got != "***" {
		t.Fatalf("MaskPhone() = %q", got)
	}
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("mid-1")}, nil
}

func TestSNSSend(t *testing.T) {
	// Arrange
	fake := &fakeSNS{}
	s := newSNSWithClient(fake, map[string]string{"AWS.SNS.SMS.SenderID": "OTPGATE"})

	// Act
	err := s.Send(context.Background(), Message{Phone: "+5511999990000", Text: "hi"})

	// Assert
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(fake.input.PhoneNumber) != "+5511999990000" || aws.ToString(fake.input.Message) != "hi" {
		t.Fatalf("input = %+v", fake.input)
	}
	if got := aws.ToString(fake.input.MessageAttributes[AttrSMSType].StringValue); got != "Transactional" {
		t.Fatalf("sms type = %q", got)
	}
	if got := aws.ToString(fake.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue); got != "OTPGATE" {
		t.Fatalf("sender id = %q", got)
	}
}

func TestSNSSendError(t *testing.T) {
	errThrottled := errors.New("throttled")
	s := newSNSWithClient(&fakeSNS{err: errThrottled}, nil)

	if err := s.Send(context.Background(), Message{Phone: "+1", Text: "x"}); !errors.Is(err, errThrottled) {
		t.Fatalf("Send err = %v", err)
	}
}

func TestLogSendValidates(t *testing.T) {
	l := NewLog()

	if err := l.Send(context.Background(), Message{Text: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("err = %v", err)
	}
	if err := l.Send(context.Background(), Message{Phone: "+1"}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v", err)
	}
	if err := l.Send(context.Background(), Message{Phone: "+1", Text: "x"}); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestNewFromDriver(t *testing.T) {
	if _, err := NewFromDriver(context.Background(), "carrier-pigeon", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("err = %v", err)
	}
	s, err := NewFromDriver(context.Background(), "LOG", FactoryOptions{})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if _, ok := s.(*Log); !ok {
		t.Fatalf("driver = %T", s)
	}
}
