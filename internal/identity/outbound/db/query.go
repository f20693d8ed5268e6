package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

func (q *queries) withTx(tx pgx.Tx) *queries {
	return &queries{db: tx}
}

type identityUserRow struct {
	ID                    int64
	Email                 pgtype.Text
	Name                  string
	Phone                 pgtype.Text
	ConfirmationCodeHash  pgtype.Text
	ConfirmationExpiresAt pgtype.Timestamptz
	DeviceUUID            pgtype.Text
	Confirmed             bool
	Roles                 []string
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

const identityUserColumns = `u.id, u.email, u.name, u.phone,
	u.confirmation_code_hash, u.confirmation_expires_at, u.device_uuid, u.confirmed,
	COALESCE((SELECT array_agg(r.role ORDER BY r.role) FROM identity_user_roles r WHERE r.user_id = u.id), '{}')::text[] AS roles,
	u.created_at, u.updated_at`

func scanIdentityUser(row pgx.Row) (identityUserRow, error) {
	var i identityUserRow
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.ConfirmationCodeHash,
		&i.ConfirmationExpiresAt,
		&i.DeviceUUID,
		&i.Confirmed,
		&i.Roles,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getIdentityUserByPhone = `SELECT ` + identityUserColumns + `
FROM identity_users u
WHERE u.phone = $1`

func (q *queries) GetIdentityUserByPhone(ctx context.Context, phone string) (identityUserRow, error) {
	return scanIdentityUser(q.db.QueryRow(ctx, getIdentityUserByPhone, phone))
}

const getIdentityUserByID = `SELECT ` + identityUserColumns + `
FROM identity_users u
WHERE u.id = $1`

func (q *queries) GetIdentityUserByID(ctx context.Context, id int64) (identityUserRow, error) {
	return scanIdentityUser(q.db.QueryRow(ctx, getIdentityUserByID, id))
}

const upsertIdentityPhoneState = `WITH u AS (
	INSERT INTO identity_users (id, phone, confirmation_code_hash, confirmation_expires_at, device_uuid, confirmed)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (phone) DO UPDATE SET
		confirmation_code_hash = EXCLUDED.confirmation_code_hash,
		confirmation_expires_at = EXCLUDED.confirmation_expires_at,
		device_uuid = EXCLUDED.device_uuid,
		confirmed = EXCLUDED.confirmed,
		updated_at = now()
	RETURNING *
)
SELECT ` + identityUserColumns + `
FROM u`

type upsertIdentityPhoneStateParams struct {
	ID                    int64
	Phone                 string
	ConfirmationCodeHash  pgtype.Text
	ConfirmationExpiresAt pgtype.Timestamptz
	DeviceUUID            pgtype.Text
	Confirmed             bool
}

// UpsertIdentityPhoneState keys on phone so a concurrent first login for the
// same number resolves to a single row.
func (q *queries) UpsertIdentityPhoneState(ctx context.Context, arg upsertIdentityPhoneStateParams) (identityUserRow, error) {
	return scanIdentityUser(q.db.QueryRow(ctx, upsertIdentityPhoneState,
		arg.ID,
		arg.Phone,
		arg.ConfirmationCodeHash,
		arg.ConfirmationExpiresAt,
		arg.DeviceUUID,
		arg.Confirmed,
	))
}

const createIdentityUser = `INSERT INTO identity_users (id, email, name, phone, password)
VALUES ($1, $2, $3, $4, $5)`

type createIdentityUserParams struct {
	ID       int64
	Email    pgtype.Text
	Name     string
	Phone    pgtype.Text
	Password string
}

func (q *queries) CreateIdentityUser(ctx context.Context, arg createIdentityUserParams) error {
	_, err := q.db.Exec(ctx, createIdentityUser, arg.ID, arg.Email, arg.Name, arg.Phone, arg.Password)
	return err
}

const createIdentityUserRole = `INSERT INTO identity_user_roles (user_id, role)
VALUES ($1, $2)
ON CONFLICT (user_id, role) DO NOTHING`

func (q *queries) CreateIdentityUserRole(ctx context.Context, userID int64, role string) (int64, error) {
	result, err := q.db.Exec(ctx, createIdentityUserRole, userID, role)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listIdentityUsers = `SELECT ` + identityUserColumns + `
FROM identity_users u
WHERE $1::text IS NULL
	OR EXISTS (SELECT 1 FROM identity_user_roles r WHERE r.user_id = u.id AND r.role = $1::text)
ORDER BY CASE WHEN $2::bool THEN u.name END DESC, CASE WHEN NOT $2::bool THEN u.name END ASC, u.id ASC`

func (q *queries) ListIdentityUsers(ctx context.Context, role pgtype.Text, desc bool) ([]identityUserRow, error) {
	rows, err := q.db.Query(ctx, listIdentityUsers, role, desc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []identityUserRow
	for rows.Next() {
		i, err := scanIdentityUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

const updateIdentityUserName = `WITH u AS (
	UPDATE identity_users SET name = $2, updated_at = now()
	WHERE id = $1
	RETURNING *
)
SELECT ` + identityUserColumns + `
FROM u`

func (q *queries) UpdateIdentityUserName(ctx context.Context, id int64, name string) (identityUserRow, error) {
	return scanIdentityUser(q.db.QueryRow(ctx, updateIdentityUserName, id, name))
}

const deleteIdentityUser = `DELETE FROM identity_users WHERE id = $1`

func (q *queries) DeleteIdentityUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteIdentityUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countIdentityUsersByRole = `SELECT count(*) FROM identity_user_roles WHERE role = $1`

func (q *queries) CountIdentityUsersByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countIdentityUsersByRole, role).Scan(&count)
	return count, err
}
