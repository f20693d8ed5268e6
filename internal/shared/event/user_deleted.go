package event

const UserDeletedDestination string = "identity.user_deleted"

type UserDeletedMessage struct {
	UserID    int64 `json:"user_id,string"`
	DeletedBy int64 `json:"deleted_by,string"`
}
