package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	PhoneLogin(ctx context.Context, in usecase.PhoneLoginInput) (*usecase.PhoneLoginOutput, error)
	PhoneConfirm(ctx context.Context, in usecase.PhoneConfirmInput) (*usecase.PhoneConfirmOutput, error)

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)

	UserList(ctx context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error)
	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*usecase.UserDetailOutput, error)
	UserCreate(ctx context.Context, in usecase.UserCreateInput) (*usecase.UserCreateOutput, error)
	UserUpdate(ctx context.Context, in usecase.UserUpdateInput) (*usecase.UserUpdateOutput, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
	UserRoleAdd(ctx context.Context, in usecase.UserRoleAddInput) (*usecase.UserRoleAddOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Phone login (public)
	pub := r.Public()
	pub.POST("/api/v1/identity/phone/login", end.PhoneLogin)
	pub.POST("/api/v1/identity/phone/confirm", end.PhoneConfirm)

	// User Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)

	// User Directory (need authenticated & authorization)
	r.GET("/api/v1/identity/users", end.UserList)
	r.GET("/api/v1/identity/users/:id", end.UserDetail)
	r.POST("/api/v1/identity/users", end.UserCreate)
	r.PATCH("/api/v1/identity/users/:id", end.UserUpdate)
	r.DELETE("/api/v1/identity/users/:id", end.UserDelete)
	r.PUT("/api/v1/identity/users/:id/roles/:role", end.UserRoleAdd)
}
