package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type PhoneLoginInput struct {
	Phone      string `validate:"required,max=32,phone"`
	DeviceUUID string `validate:"required,max=64"`
}

// PhoneLoginOutput is either authenticated (Token and User set) or a
// challenge was issued (ExpiresAt set).
type PhoneLoginOutput struct {
	Authenticated bool
	Token         string
	User          entity.User
	ExpiresAt     time.Time
}

func (s *Usecase) PhoneLogin(ctx context.Context, in PhoneLoginInput) (*PhoneLoginOutput, error) {
	ctx, span := s.startSpan(ctx, "PhoneLogin")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.DeviceUUID = strings.TrimSpace(in.DeviceUUID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	identity, err := s.repoDB.FindPhoneIdentity(ctx, in.Phone)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo find phone identity", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if identity != nil && identity.ConfirmedOn(in.DeviceUUID) {
		token, err := s.issueToken(ctx, identity.User)
		if err != nil {
			return nil, err
		}

		return &PhoneLoginOutput{
			Authenticated: true,
			Token:         token,
			User:          identity.User,
		}, nil
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate confirmation code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash confirmation code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otpTTL()
	expiresAt := s.clock.Now().Add(ttl)

	record := entity.PhoneIdentity{User: entity.User{Phone: in.Phone}}
	if identity != nil {
		record.User = identity.User
	} else {
		record.User.ID = s.uid.Generate()
	}
	record.State = entity.PendingConfirmation{
		CodeHash:   string(codeHash),
		ExpiresAt:  expiresAt,
		DeviceUUID: in.DeviceUUID,
	}

	saved, err := s.repoDB.SavePhoneIdentity(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo save pending phone identity", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, in.Phone); err != nil {
			slog.WarnContext(ctx, "failed to reset confirm attempts", "phone", in.Phone, "error", err)
		}
	}

	if err := s.sms.SendConfirmationCode(ctx, in.Phone, code, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to send confirmation code", "user_id", saved.User.ID, "phone", in.Phone, "error", err)
		return nil, goerror.NewBusiness("Failed to deliver confirmation code, please try again", goerror.CodeBadGateway)
	}

	evt := PhoneChallengeIssuedEvent{
		UserID:     saved.User.ID,
		Phone:      in.Phone,
		DeviceUUID: in.DeviceUUID,
		ExpiresAt:  expiresAt,
	}
	s.background(ctx, "identity.publish_phone_challenge_issued", func(ctx context.Context) error {
		return s.repoMessaging.PublishPhoneChallengeIssued(ctx, evt)
	})

	return &PhoneLoginOutput{ExpiresAt: expiresAt}, nil
}
