package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
)

func (s *DB) FindPhoneIdentity(ctx context.Context, phone string) (_ *entity.PhoneIdentity, err error) {
	ctx, span := s.startSpan(ctx, "FindPhoneIdentity")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetIdentityUserByPhone(ctx, phone)
	if err != nil {
		return nil, s.mapError(err)
	}

	pi := toPhoneIdentity(row)
	return &pi, nil
}

func (s *DB) SavePhoneIdentity(ctx context.Context, in entity.PhoneIdentity) (_ *entity.PhoneIdentity, err error) {
	ctx, span := s.startSpan(ctx, "SavePhoneIdentity")
	defer func() { s.endSpan(span, err) }()

	arg := upsertIdentityPhoneStateParams{
		ID:    in.User.ID,
		Phone: in.User.Phone,
	}

	switch st := in.State.(type) {
	case entity.PendingConfirmation:
		arg.ConfirmationCodeHash = pgtype.Text{String: st.CodeHash, Valid: true}
		arg.ConfirmationExpiresAt = pgtype.Timestamptz{Time: st.ExpiresAt, Valid: true}
		arg.DeviceUUID = pgtype.Text{String: st.DeviceUUID, Valid: true}
	case entity.Confirmed:
		arg.DeviceUUID = pgtype.Text{String: st.DeviceUUID, Valid: true}
		arg.Confirmed = true
	}

	row, err := s.query.UpsertIdentityPhoneState(ctx, arg)
	if err != nil {
		return nil, s.mapError(err)
	}

	pi := toPhoneIdentity(row)
	return &pi, nil
}

func toPhoneIdentity(row identityUserRow) entity.PhoneIdentity {
	return entity.PhoneIdentity{User: toUser(row), State: toPhoneState(row)}
}

// toPhoneState reads the confirmation columns. A code hash wins over the
// confirmed flag so a pending challenge is never mistaken for a login.
func toPhoneState(row identityUserRow) entity.PhoneState {
	switch {
	case row.ConfirmationCodeHash.Valid && row.DeviceUUID.Valid && row.ConfirmationExpiresAt.Valid:
		return entity.PendingConfirmation{
			CodeHash:   row.ConfirmationCodeHash.String,
			ExpiresAt:  row.ConfirmationExpiresAt.Time.UTC(),
			DeviceUUID: row.DeviceUUID.String,
		}
	case row.Confirmed && row.DeviceUUID.Valid:
		return entity.Confirmed{DeviceUUID: row.DeviceUUID.String}
	default:
		return entity.Unregistered{}
	}
}
