package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

func (s *DB) CreateUser(ctx context.Context, in entity.NewUser) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	var row identityUserRow
	err = s.withTx(ctx, func(q *queries) error {
		if err := q.CreateIdentityUser(ctx, createIdentityUserParams{
			ID:       in.ID,
			Email:    optionalText(in.Email),
			Name:     in.Name,
			Phone:    optionalText(in.Phone),
			Password: in.PasswordHash,
		}); err != nil {
			return err
		}

		for _, role := range in.Roles {
			if _, err := q.CreateIdentityUserRole(ctx, in.ID, role.String()); err != nil {
				return err
			}
		}

		var err error
		row, err = q.GetIdentityUserByID(ctx, in.ID)
		return err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	user := toUser(row)
	return &user, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetIdentityUserByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	user := toUser(row)
	return &user, nil
}

func (s *DB) ListUsers(ctx context.Context, filter entity.UserListFilter) (_ []entity.User, err error) {
	ctx, span := s.startSpan(ctx, "ListUsers")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListIdentityUsers(ctx, optionalText(filter.Role.String()), filter.Sort == entity.SortDesc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return lo.Map(rows, func(row identityUserRow, _ int) entity.User {
		return toUser(row)
	}), nil
}

func (s *DB) UpdateUserName(ctx context.Context, id int64, name string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserName")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.UpdateIdentityUserName(ctx, id, name)
	if err != nil {
		return nil, s.mapError(err)
	}

	user := toUser(row)
	return &user, nil
}

func (s *DB) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.DeleteIdentityUser(ctx, id)
	if err != nil {
		return s.mapError(err)
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) CountUsersByRole(ctx context.Context, role entity.Role) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUsersByRole")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.CountIdentityUsersByRole(ctx, role.String())
	return n, s.mapError(err)
}

func (s *DB) AddUserRole(ctx context.Context, id int64, role entity.Role) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AddUserRole")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.CreateIdentityUserRole(ctx, id, role.String())
	if err != nil {
		return false, s.mapError(err)
	}

	return n == 1, nil
}

func toUser(row identityUserRow) entity.User {
	roles := make([]entity.Role, 0, len(row.Roles))
	for _, raw := range row.Roles {
		if role, err := entity.ParseRole(raw); err == nil {
			roles = append(roles, role)
		}
	}

	return entity.User{
		ID:        row.ID,
		Email:     row.Email.String,
		Name:      row.Name,
		Phone:     row.Phone.String,
		Roles:     roles,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
