package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type PhoneConfirmInput struct {
	Phone      string `validate:"required,max=32,phone"`
	DeviceUUID string `validate:"required,max=64"`
	Code       string `validate:"required,numeric,min=4,max=9"`
}

type PhoneConfirmOutput struct {
	Token string
	User  entity.User
}

var errChallengeNotFound = goerror.NewBusiness("Confirmation not found or invalid", goerror.CodeNotFound)

func (s *Usecase) PhoneConfirm(ctx context.Context, in PhoneConfirmInput) (*PhoneConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "PhoneConfirm")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.DeviceUUID = strings.TrimSpace(in.DeviceUUID)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	identity, err := s.repoDB.FindPhoneIdentity(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "phone identity not found", "phone", in.Phone)
		return nil, errChallengeNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find phone identity", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	pending, ok := identity.State.(entity.PendingConfirmation)
	if !ok || pending.DeviceUUID != in.DeviceUUID {
		slog.WarnContext(ctx, "no pending confirmation for device", "user_id", identity.User.ID, "device_uuid", in.DeviceUUID)
		return nil, errChallengeNotFound
	}

	if err := s.reserveAttempt(ctx, in.Phone); err != nil {
		return nil, err
	}

	if !s.hmac.Verify(pending.CodeHash, in.Code) {
		slog.WarnContext(ctx, "confirmation code mismatch", "user_id", identity.User.ID)
		return nil, goerror.NewBusiness("Invalid confirmation code", goerror.CodeUnauthorized)
	}

	if pending.Expired(s.clock.Now()) {
		identity.State = entity.Unregistered{}
		if _, err := s.repoDB.SavePhoneIdentity(ctx, *identity); err != nil {
			slog.ErrorContext(ctx, "failed to repo clear expired confirmation", "user_id", identity.User.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		slog.WarnContext(ctx, "confirmation code expired", "user_id", identity.User.ID, "expires_at", pending.ExpiresAt)
		return nil, goerror.NewBusiness("Confirmation code expired", goerror.CodeGone)
	}

	identity.State = entity.Confirmed{DeviceUUID: in.DeviceUUID}
	saved, err := s.repoDB.SavePhoneIdentity(ctx, *identity)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo confirm phone identity", "user_id", identity.User.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, in.Phone); err != nil {
			slog.WarnContext(ctx, "failed to reset confirm attempts", "phone", in.Phone, "error", err)
		}
	}

	token, err := s.issueToken(ctx, saved.User)
	if err != nil {
		return nil, err
	}

	evt := PhoneConfirmedEvent{
		UserID:     saved.User.ID,
		Phone:      in.Phone,
		DeviceUUID: in.DeviceUUID,
	}
	s.background(ctx, "identity.publish_phone_confirmed", func(ctx context.Context) error {
		return s.repoMessaging.PublishPhoneConfirmed(ctx, evt)
	})

	return &PhoneConfirmOutput{Token: token, User: saved.User}, nil
}

func (s *Usecase) maxConfirmAttempts() int {
	return s.cfg.GetInt("modules.identity.confirm_max_attempts")
}

// reserveAttempt counts the attempt before the code is compared, so
// concurrent guesses cannot get past the limit. A successful confirm resets
// the counter, which leaves only wrong codes counted. It fails open when the
// counter is unreachable.
func (s *Usecase) reserveAttempt(ctx context.Context, phone string) error {
	limit := s.maxConfirmAttempts()
	if s.attempts == nil || limit <= 0 {
		return nil
	}

	n, err := s.attempts.Hit(ctx, phone)
	if err != nil {
		slog.WarnContext(ctx, "failed to record confirm attempt", "phone", phone, "error", err)
		return nil
	}

	if n > limit {
		slog.WarnContext(ctx, "too many confirm attempts", "phone", phone, "attempts", n)
		return goerror.NewBusiness("Too many attempts, request a new code", goerror.CodeTooManyRequest)
	}

	return nil
}
