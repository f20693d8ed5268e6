package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/migrations"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("otpgate"),
		tcpostgres.WithUsername("otpgate"),
		tcpostgres.WithPassword("otpgate"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool: %v", err)
	}
	t.Cleanup(pool.Close)

	return NewDB(pool, instrument.NewNoop())
}

func TestPhoneIdentityLifecycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := newTestDB(t)
	const phone = "+5511999990000"
	expiresAt := time.Date(2026, 1, 2, 3, 9, 5, 0, time.UTC)

	// Act & Assert
	if _, err := s.FindPhoneIdentity(ctx, phone); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("find unknown = %v, want ErrNotFound", err)
	}

	pending := entity.PendingConfirmation{CodeHash: "digest", ExpiresAt: expiresAt, DeviceUUID: "device-a"}
	saved, err := s.SavePhoneIdentity(ctx, entity.PhoneIdentity{
		User:  entity.User{ID: 10, Phone: phone},
		State: pending,
	})
	if err != nil {
		t.Fatalf("save pending: %v", err)
	}
	got, ok := saved.State.(entity.PendingConfirmation)
	if !ok || saved.User.ID != 10 || got.CodeHash != "digest" || got.DeviceUUID != "device-a" || !got.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("saved = %+v", saved)
	}

	// A racing first login for the same phone lands on the same row.
	raced, err := s.SavePhoneIdentity(ctx, entity.PhoneIdentity{
		User:  entity.User{ID: 11, Phone: phone},
		State: entity.Confirmed{DeviceUUID: "device-b"},
	})
	if err != nil {
		t.Fatalf("save confirmed: %v", err)
	}
	if raced.User.ID != 10 {
		t.Fatalf("upsert created user %d, want 10", raced.User.ID)
	}

	found, err := s.FindPhoneIdentity(ctx, phone)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.ConfirmedOn("device-b") {
		t.Fatalf("state = %#v, want confirmed on device-b", found.State)
	}

	cleared, err := s.SavePhoneIdentity(ctx, entity.PhoneIdentity{User: found.User, State: entity.Unregistered{}})
	if err != nil {
		t.Fatalf("save unregistered: %v", err)
	}
	if _, ok := cleared.State.(entity.Unregistered); !ok {
		t.Fatalf("state = %#v, want Unregistered", cleared.State)
	}
}

func TestUserManagement(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := newTestDB(t)

	// Act & Assert
	admin, err := s.CreateUser(ctx, entity.NewUser{
		ID:    1,
		Email: "root@otpgate.test",
		Name:  "Root Admin",
		Roles: []entity.Role{entity.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if !admin.HasRole(entity.RoleAdmin) || admin.Phone != "" {
		t.Fatalf("admin = %+v", admin)
	}

	if _, err := s.CreateUser(ctx, entity.NewUser{ID: 2, Email: "root@otpgate.test", Name: "Dup"}); !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("duplicate email = %v, want ErrConflict", err)
	}

	if _, err := s.CreateUser(ctx, entity.NewUser{ID: 3, Phone: "+5511988887777", Name: "Plain User", Roles: []entity.Role{entity.RoleUser}}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	users, err := s.ListUsers(ctx, entity.UserListFilter{Sort: entity.SortDesc})
	if err != nil || len(users) != 2 || users[0].Name != "Root Admin" {
		t.Fatalf("list desc = %+v, %v", users, err)
	}

	admins, err := s.ListUsers(ctx, entity.UserListFilter{Role: entity.RoleAdmin})
	if err != nil || len(admins) != 1 || admins[0].ID != 1 {
		t.Fatalf("list admins = %+v, %v", admins, err)
	}

	added, err := s.AddUserRole(ctx, 3, entity.RoleAdmin)
	if err != nil || !added {
		t.Fatalf("add role = %v, %v", added, err)
	}
	if again, err := s.AddUserRole(ctx, 3, entity.RoleAdmin); err != nil || again {
		t.Fatalf("add role again = %v, %v, want false", again, err)
	}
	if _, err := s.AddUserRole(ctx, 404, entity.RoleAdmin); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("add role missing user = %v, want ErrNotFound", err)
	}

	if n, err := s.CountUsersByRole(ctx, entity.RoleAdmin); err != nil || n != 2 {
		t.Fatalf("count admins = %d, %v", n, err)
	}

	renamed, err := s.UpdateUserName(ctx, 3, "Renamed User")
	if err != nil || renamed.Name != "Renamed User" || len(renamed.Roles) != 2 {
		t.Fatalf("rename = %+v, %v", renamed, err)
	}
	if _, err := s.UpdateUserName(ctx, 404, "Nobody"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("rename missing = %v, want ErrNotFound", err)
	}

	if err := s.DeleteUser(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteUser(ctx, 3); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("delete again = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByID(ctx, 3); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}
}

func TestToPhoneState(t *testing.T) {
	tests := []struct {
		name string
		row  identityUserRow
		want string
	}{
		{name: "empty", row: identityUserRow{}, want: "entity.Unregistered"},
		{name: "confirmed without device", row: identityUserRow{Confirmed: true}, want: "entity.Unregistered"},
		{name: "confirmed", row: identityUserRow{Confirmed: true, DeviceUUID: optionalText("d")}, want: "entity.Confirmed"},
		{
			name: "pending wins over confirmed",
			row: identityUserRow{
				Confirmed:             true,
				DeviceUUID:            optionalText("d"),
				ConfirmationCodeHash:  optionalText("h"),
				ConfirmationExpiresAt: timestamptz(time.Now()),
			},
			want: "entity.PendingConfirmation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := toPhoneState(tt.row)

			// Assert
			if name := typeName(got); name != tt.want {
				t.Fatalf("toPhoneState() = %s, want %s", name, tt.want)
			}
		})
	}
}
