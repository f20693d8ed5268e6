package usecase

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const testConfig = `
modules:
  identity:
    otp_ttl_minutes: 5
    confirm_max_attempts: 3
`

var errStore = errors.New("store unavailable")

type fakeRepo struct {
	mu      sync.Mutex
	byPhone map[string]entity.PhoneIdentity
	users   map[int64]entity.User
	emails  map[string]int64
	errFind error
	errSave error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byPhone: make(map[string]entity.PhoneIdentity),
		users:   make(map[int64]entity.User),
		emails:  make(map[string]int64),
	}
}

func (r *fakeRepo) FindPhoneIdentity(_ context.Context, phone string) (*entity.PhoneIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errFind != nil {
		return nil, r.errFind
	}
	pi, ok := r.byPhone[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	pi.User = r.users[pi.User.ID]
	return &pi, nil
}

func (r *fakeRepo) SavePhoneIdentity(_ context.Context, in entity.PhoneIdentity) (*entity.PhoneIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errSave != nil {
		return nil, r.errSave
	}
	if in.State == nil {
		in.State = entity.Unregistered{}
	}
	r.saves++
	if u, ok := r.users[in.User.ID]; ok {
		in.User = u
	}
	r.users[in.User.ID] = in.User
	r.byPhone[in.User.Phone] = in
	return &in, nil
}

func (r *fakeRepo) state(phone string) entity.PhoneState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPhone[phone].State
}

func (r *fakeRepo) CreateUser(_ context.Context, in entity.NewUser) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errSave != nil {
		return nil, r.errSave
	}
	if _, ok := r.emails[in.Email]; ok && in.Email != "" {
		return nil, goerror.ErrConflict
	}
	if _, ok := r.byPhone[in.Phone]; ok && in.Phone != "" {
		return nil, goerror.ErrConflict
	}

	u := entity.User{ID: in.ID, Email: in.Email, Name: in.Name, Phone: in.Phone, Roles: in.Roles}
	r.users[u.ID] = u
	if u.Email != "" {
		r.emails[u.Email] = u.ID
	}
	if u.Phone != "" {
		r.byPhone[u.Phone] = entity.PhoneIdentity{User: u, State: entity.Unregistered{}}
	}
	return &u, nil
}

func (r *fakeRepo) addUser(u entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errFind != nil {
		return nil, r.errFind
	}
	u, ok := r.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (r *fakeRepo) ListUsers(_ context.Context, filter entity.UserListFilter) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errFind != nil {
		return nil, r.errFind
	}
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role == "" || u.HasRole(filter.Role) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b entity.User) int {
		if filter.Sort == entity.SortDesc {
			return strings.Compare(b.Name, a.Name)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *fakeRepo) UpdateUserName(_ context.Context, id int64, name string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	u.Name = name
	r.users[id] = u
	return &u, nil
}

func (r *fakeRepo) DeleteUser(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return goerror.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) CountUsersByRole(_ context.Context, role entity.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, u := range r.users {
		if u.HasRole(role) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) AddUserRole(_ context.Context, id int64, role entity.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return false, goerror.ErrNotFound
	}
	if u.HasRole(role) {
		return false, nil
	}
	u.Roles = append(u.Roles, role)
	r.users[id] = u
	return true, nil
}

type sentCode struct {
	Phone string
	Code  string
	TTL   time.Duration
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeSMS) SendConfirmationCode(_ context.Context, phone, code string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{Phone: phone, Code: code, TTL: ttl})
	return nil
}

func (f *fakeSMS) last(t *testing.T) sentCode {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		t.Fatalf("no sms sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeMessaging struct {
	mu        sync.Mutex
	issued    []PhoneChallengeIssuedEvent
	confirmed []PhoneConfirmedEvent
	deleted   []UserDeletedEvent
	err       error
}

func (f *fakeMessaging) PublishPhoneChallengeIssued(_ context.Context, msg PhoneChallengeIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)
	return f.err
}

func (f *fakeMessaging) PublishPhoneConfirmed(_ context.Context, msg PhoneConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, msg)
	return f.err
}

func (f *fakeMessaging) PublishUserDeleted(_ context.Context, msg UserDeletedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, msg)
	return f.err
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int
	errHit error
	resets int
}

func (f *fakeCounter) Hit(_ context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errHit != nil {
		return 0, f.errHit
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) Reset(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	delete(f.counts, key)
	return nil
}

type seqCode struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (s *seqCode) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.codes) {
		return "", errors.New("no more codes")
	}
	c := s.codes[s.next]
	s.next++
	return c, nil
}

type seqID struct {
	n atomic.Int64
}

func (s *seqID) Generate() int64 {
	return 1000 + s.n.Add(1)
}

type fakeJWT struct {
	err error
}

func (f fakeJWT) Generate(p jwt.Principal) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + strconv.FormatInt(p.UserID, 10), nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{}, jwt.ErrInvalidToken
}

type fakeEnforcer struct {
	allow map[string]bool
	err   error
}

func (f fakeEnforcer) Enforce(rvals ...any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	role, _ := rvals[0].(string)
	return f.allow[role], nil
}

type fixture struct {
	uc       *Usecase
	repo     *fakeRepo
	sms      *fakeSMS
	mq       *fakeMessaging
	attempts *fakeCounter
	clock    *clock.Manual
	mgr      *goroutine.Manager
}

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	f := &fixture{
		repo:     newFakeRepo(),
		sms:      &fakeSMS{},
		mq:       &fakeMessaging{},
		attempts: &fakeCounter{counts: make(map[string]int)},
		clock:    clock.NewManual(t0),
		mgr:      goroutine.NewManager(8),
	}
	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.mq,
		SMS:           f.sms,
		Attempts:      f.attempts,
		Validator:     v,
		Config:        cfg,
		Code:          &seqCode{codes: codes},
		HMAC:          hash.NewHMACSHA256("test-secret"),
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &seqID{},
		Clock:         f.clock,
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
		Enforcer:      fakeEnforcer{allow: map[string]bool{"ADMIN": true}},
		Goroutine:     f.mgr,
	})

	return f
}

// drain waits for background publishing.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	if err := f.mgr.Wait(); err != nil {
		t.Fatalf("background tasks: %v", err)
	}
}

func wantCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %s", want)
	}
	if got := goerror.CodeOf(err); got != want {
		t.Fatalf("code = %s, want %s (err: %v)", got, want, err)
	}
}

func adminCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 1, Roles: []string{"ADMIN"}})
}

func userCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 2, Roles: []string{"USER"}})
}

func TestAuthenticatedAndAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		enforcer fakeEnforcer
		want     goerror.Code
		wantOK   bool
	}{
		{name: "no claims", ctx: context.Background(), want: goerror.CodeUnauthorized},
		{name: "role denied", ctx: userCtx(), enforcer: fakeEnforcer{allow: map[string]bool{"ADMIN": true}}, want: goerror.CodeForbidden},
		{name: "role allowed", ctx: adminCtx(), enforcer: fakeEnforcer{allow: map[string]bool{"ADMIN": true}}, wantOK: true},
		{name: "enforcer error", ctx: adminCtx(), enforcer: fakeEnforcer{err: errStore}, want: goerror.CodeInternal},
		{
			name:     "any role suffices",
			ctx:      jwt.SetAuth(context.Background(), jwt.Claims{UserID: 3, Roles: []string{"USER", "ADMIN"}}),
			enforcer: fakeEnforcer{allow: map[string]bool{"ADMIN": true}},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			f.uc.enforcer = tt.enforcer

			// Act
			clm, err := f.uc.authenticatedAndAuthorized(tt.ctx, "identity.users", "read")

			// Assert
			if tt.wantOK {
				if err != nil || clm == nil {
					t.Fatalf("got (%v, %v), want claims", clm, err)
				}
				return
			}
			wantCode(t, err, tt.want)
		})
	}
}

func TestOTPTTLDefault(t *testing.T) {
	// Arrange
	f := newFixture(t)
	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	f.uc.cfg = cfg

	// Act
	got := f.uc.otpTTL()

	// Assert
	if got != 5*time.Minute {
		t.Fatalf("otpTTL() = %s, want 5m", got)
	}
}
