package event

const PhoneConfirmedDestination string = "identity.phone_confirmed"

type PhoneConfirmedMessage struct {
	UserID     int64  `json:"user_id,string"`
	Phone      string `json:"phone"`
	DeviceUUID string `json:"device_uuid"`
}
