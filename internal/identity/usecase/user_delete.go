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
	UserDeleteInput struct {
		ID int64 `validate:"required,gt=0"`
	}
)

func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityUsers, constant.PermActDelete)
	if err != nil {
		return err
	}

	user, err := s.repoDB.GetUserByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if user.HasRole(entity.RoleAdmin) {
		admins, err := s.repoDB.CountUsersByRole(ctx, entity.RoleAdmin)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo count admins", "error", err)
			return goerror.NewServer(err)
		}
		if admins <= 1 {
			slog.WarnContext(ctx, "refusing to delete the last system admin", "user_id", user.ID, "by_user_id", clm.UserID)
			return goerror.NewBusiness("Cannot delete the last system admin!", goerror.CodeBadRequest)
		}
	}

	if err := s.repoDB.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("User not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo delete user", "user_id", user.ID, "by_user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	evt := UserDeletedEvent{UserID: user.ID, DeletedBy: clm.UserID}
	s.background(ctx, "identity.publish_user_deleted", func(ctx context.Context) error {
		return s.repoMessaging.PublishUserDeleted(ctx, evt)
	})

	return nil
}
