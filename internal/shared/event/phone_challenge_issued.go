package event

import "time"

const PhoneChallengeIssuedDestination string = "identity.phone_challenge_issued"

// PhoneChallengeIssuedMessage never carries the code itself.
type PhoneChallengeIssuedMessage struct {
	UserID     int64     `json:"user_id,string"`
	Phone      string    `json:"phone"`
	DeviceUUID string    `json:"device_uuid"`
	ExpiresAt  time.Time `json:"expires_at"`
}
