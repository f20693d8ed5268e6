package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type (
	UserRoleAddInput struct {
		ID   int64 `validate:"required,gt=0"`
		Role string
	}

	// UserRoleAddOutput is nil when the user already held the role.
	UserRoleAddOutput struct {
		User entity.User
	}
)

func (s *Usecase) UserRoleAdd(ctx context.Context, in UserRoleAddInput) (*UserRoleAddOutput, error) {
	ctx, span := s.startSpan(ctx, "UserRoleAdd")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityUsers, constant.PermActUpdate); err != nil {
		return nil, err
	}

	role, err := entity.ParseRole(in.Role)
	if err != nil {
		slog.WarnContext(ctx, "unknown role requested", "user_id", in.ID, "role", in.Role)
		return nil, goerror.NewBusiness("Invalid role", goerror.CodeBadRequest)
	}

	user, err := s.repoDB.GetUserByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if user.HasRole(role) {
		return nil, nil
	}

	added, err := s.repoDB.AddUserRole(ctx, user.ID, role)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo add user role", "user_id", user.ID, "role", role.String(), "error", err)
		return nil, goerror.NewServer(err)
	}
	if !added {
		return nil, nil
	}

	user.Roles = append(user.Roles, role)
	return &UserRoleAddOutput{User: *user}, nil
}
