package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
)

type PhoneLoginRequest struct {
	Phone string `json:"phone"`
	UUID  string `json:"uuid"`
}

// PhoneLoginResponse carries either a token or the expiry of a freshly sent code.
type PhoneLoginResponse struct {
	Token     string        `json:"token,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

func (r PhoneLoginResponse) StatusCode() int {
	if r.Token == "" {
		return http.StatusAccepted
	}
	return http.StatusOK
}

func (r PhoneLoginResponse) Message() string {
	if r.Token == "" {
		return "Confirmation code sent. Please confirm to finish login."
	}
	return "Login successful"
}

type PhoneConfirmRequest struct {
	Phone            string `json:"phone"`
	UUID             string `json:"uuid"`
	ConfirmationCode string `json:"confirmation_code"`
}

type PhoneConfirmResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (PhoneConfirmResponse) Message() string {
	return "Phone confirmed"
}

type UserResponse struct {
	ID        int64     `json:"id,string"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Roles:     entity.RoleNames(u.Roles),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ProfileResponse struct {
	User UserResponse `json:"user"`
}

type UserCreateRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Roles    []string `json:"roles"`
}

type UserCreateResponse struct {
	User UserResponse `json:"user"`
}

func (UserCreateResponse) StatusCode() int {
	return http.StatusCreated
}

func (UserCreateResponse) Message() string {
	return "User created"
}

type UserUpdateRequest struct {
	Name string `json:"name"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

func (r UsersResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.Users)}
}

func toUsersResponse(users []entity.User) UsersResponse {
	return UsersResponse{Users: lo.Map(users, func(u entity.User, _ int) UserResponse {
		return toUserResponse(u)
	})}
}

type UserDetailResponse struct {
	User UserResponse `json:"user"`
}
