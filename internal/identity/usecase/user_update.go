package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type (
	UserUpdateInput struct {
		ID   int64  `validate:"required,gt=0"`
		Name string `validate:"required,min=2,max=100,alphaspace"`
	}

	// UserUpdateOutput is nil when nothing changed.
	UserUpdateOutput struct {
		User entity.User
	}
)

func (s *Usecase) UserUpdate(ctx context.Context, in UserUpdateInput) (*UserUpdateOutput, error) {
	ctx, span := s.startSpan(ctx, "UserUpdate")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityUsers, constant.PermActUpdate); err != nil {
		return nil, err
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

	if user.Name == in.Name {
		return nil, nil
	}

	updated, err := s.repoDB.UpdateUserName(ctx, in.ID, in.Name)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update user name", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserUpdateOutput{User: *updated}, nil
}
