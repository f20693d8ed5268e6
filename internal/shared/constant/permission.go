package constant

// Casbin objects.
const (
	PermIdentityUsers = "identity.users"
)

// Casbin actions.
const (
	PermActRead   = "read"
	PermActCreate = "create"
	PermActUpdate = "update"
	PermActDelete = "delete"
)
