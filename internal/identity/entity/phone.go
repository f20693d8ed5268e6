package entity

import "time"

// PhoneState is the login state of a phone identity. It is one of
// Unregistered, PendingConfirmation or Confirmed.
type PhoneState interface {
	phoneState()
}

// Unregistered has no outstanding code and no confirmed device.
type Unregistered struct{}

// PendingConfirmation holds the only outstanding code for the phone.
type PendingConfirmation struct {
	CodeHash   string
	ExpiresAt  time.Time
	DeviceUUID string
}

// Confirmed is activated for login on a single device.
type Confirmed struct {
	DeviceUUID string
}

func (Unregistered) phoneState()        {}
func (PendingConfirmation) phoneState() {}
func (Confirmed) phoneState()           {}

// Expired reports whether now is strictly after the expiry.
func (p PendingConfirmation) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// PhoneIdentity is a user record as seen by the phone login flow.
type PhoneIdentity struct {
	User  User
	State PhoneState
}

// DeviceUUID returns the device bound to the current state, or "".
func (pi PhoneIdentity) DeviceUUID() string {
	switch st := pi.State.(type) {
	case PendingConfirmation:
		return st.DeviceUUID
	case Confirmed:
		return st.DeviceUUID
	default:
		return ""
	}
}

// ConfirmedOn reports whether the identity is confirmed on device.
func (pi PhoneIdentity) ConfirmedOn(device string) bool {
	st, ok := pi.State.(Confirmed)
	return ok && st.DeviceUUID == device
}
