package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type PhoneChallengeIssuedEvent struct {
	UserID     int64
	Phone      string
	DeviceUUID string
	ExpiresAt  time.Time
}

type PhoneConfirmedEvent struct {
	UserID     int64
	Phone      string
	DeviceUUID string
}

type UserDeletedEvent struct {
	UserID    int64
	DeletedBy int64
}

type repoMessaging interface {
	PublishPhoneChallengeIssued(ctx context.Context, msg PhoneChallengeIssuedEvent) error
	PublishPhoneConfirmed(ctx context.Context, msg PhoneConfirmedEvent) error
	PublishUserDeleted(ctx context.Context, msg UserDeletedEvent) error
}

type repoDB interface {
	FindPhoneIdentity(ctx context.Context, phone string) (*entity.PhoneIdentity, error)
	SavePhoneIdentity(ctx context.Context, in entity.PhoneIdentity) (*entity.PhoneIdentity, error)

	CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context, filter entity.UserListFilter) ([]entity.User, error)
	UpdateUserName(ctx context.Context, id int64, name string) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error
	CountUsersByRole(ctx context.Context, role entity.Role) (int64, error)
	AddUserRole(ctx context.Context, id int64, role entity.Role) (bool, error)
}

type smsGateway interface {
	SendConfirmationCode(ctx context.Context, phone, code string, ttl time.Duration) error
}

type attemptCounter interface {
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	sms           smsGateway
	attempts      attemptCounter
	validator     validator.Validator
	cfg           config.Config
	code          otp.CodeGenerator
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	SMS           smsGateway
	Attempts      attemptCounter
	Validator     validator.Validator
	Config        config.Config
	Code          otp.CodeGenerator
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		sms:           dep.SMS,
		attempts:      dep.Attempts,
		validator:     dep.Validator,
		cfg:           dep.Config,
		code:          dep.Code,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetMinute("modules.identity.otp_ttl_minutes"); ttl > 0 {
		return ttl
	}
	return 5 * time.Minute
}

func (s *Usecase) issueToken(ctx context.Context, user entity.User) (string, error) {
	token, err := s.jwt.Generate(jwt.Principal{
		UserID: user.ID,
		Phone:  user.Phone,
		Email:  user.Email,
		Roles:  entity.RoleNames(user.Roles),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return "", goerror.NewServer(err)
	}

	return token, nil
}

// background runs f detached from the request so a client disconnect does
// not cancel event delivery.
func (s *Usecase) background(ctx context.Context, name string, f func(ctx context.Context) error) {
	s.goroutine.Go(context.WithoutCancel(ctx), name, func(ctx context.Context) error {
		if err := f(ctx); err != nil {
			slog.ErrorContext(ctx, "background task failed", "task", name, "error", err)
		}
		return nil
	})
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	for _, role := range clm.Roles {
		ok, err := s.enforcer.Enforce(role, obj, act)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "role", role, "error", err)
			return nil, goerror.NewServer(err)
		}
		if ok {
			return clm, nil
		}
	}

	slog.WarnContext(ctx, "account not allowed", "user_id", clm.UserID, "obj", obj, "act", act)
	return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
}
