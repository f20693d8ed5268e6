package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

type (
	UserListInput struct {
		Sort string
		Role string
	}

	UserListOutput struct {
		Users []entity.User
	}
)

func (s *Usecase) UserList(ctx context.Context, in UserListInput) (*UserListOutput, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	sort, err := entity.ParseSortDirection(in.Sort)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "sort", "sort must be asc or desc")
	}

	filter := entity.UserListFilter{Sort: sort}
	if in.Role != "" {
		role, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, goerror.NewInvalidInput(nil, "role", "role must be ADMIN or USER")
		}
		filter.Role = role
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityUsers, constant.PermActRead); err != nil {
		return nil, err
	}

	users, err := s.repoDB.ListUsers(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list users", "sort", sort.String(), "role", filter.Role.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserListOutput{Users: users}, nil
}
