package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type (
	UserCreateInput struct {
		Email    string `validate:"omitempty,email,max=254"`
		Password string `validate:"omitempty,password"`
		Name     string `validate:"required,min=2,max=100,alphaspace"`
		Phone    string `validate:"required_without=Email,omitempty,max=32,phone"`
		Roles    []string
	}

	UserCreateOutput struct {
		User entity.User
	}
)

func (s *Usecase) UserCreate(ctx context.Context, in UserCreateInput) (*UserCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "UserCreate")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	roles := make([]entity.Role, 0, len(in.Roles))
	for _, raw := range in.Roles {
		role, err := entity.ParseRole(raw)
		if err != nil {
			return nil, goerror.NewInvalidInput(nil, "roles", "roles must be ADMIN or USER")
		}
		roles = append(roles, role)
	}
	roles = lo.Uniq(roles)

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityUsers, constant.PermActCreate); err != nil {
		return nil, err
	}

	var passwordHash string
	if in.Password != "" {
		hashed, err := s.bcrypt.Hash(in.Password)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash password", "error", err)
			return nil, goerror.NewServer(err)
		}
		passwordHash = string(hashed)
	}

	user, err := s.repoDB.CreateUser(ctx, entity.NewUser{
		ID:           s.uid.Generate(),
		Email:        in.Email,
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: passwordHash,
		Roles:        roles,
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "user account already exists", "email", in.Email, "phone", in.Phone)
		return nil, goerror.NewBusiness("User with that email or phone already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserCreateOutput{User: *user}, nil
}
