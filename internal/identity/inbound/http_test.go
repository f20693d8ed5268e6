package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

type fakeJWT struct{}

func (fakeJWT) Generate(jwt.Principal) (string, error) { return "", nil }

func (fakeJWT) Verify(token string) (jwt.Claims, error) {
	if token != "admin-token" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 1, Roles: []string{"ADMIN"}}, nil
}

var testUser = entity.User{ID: 1001, Name: "Plain User", Phone: "+5511999990000", Roles: []entity.Role{entity.RoleUser}}

type fakeUC struct {
	login      *usecase.PhoneLoginOutput
	confirmErr error
	update     *usecase.UserUpdateOutput
	roleAdd    *usecase.UserRoleAddOutput

	gotLogin   usecase.PhoneLoginInput
	gotConfirm usecase.PhoneConfirmInput
	gotList    usecase.UserListInput
	gotRole    usecase.UserRoleAddInput
	gotClaims  *jwt.Claims
}

func (f *fakeUC) PhoneLogin(_ context.Context, in usecase.PhoneLoginInput) (*usecase.PhoneLoginOutput, error) {
	f.gotLogin = in
	return f.login, nil
}

func (f *fakeUC) PhoneConfirm(_ context.Context, in usecase.PhoneConfirmInput) (*usecase.PhoneConfirmOutput, error) {
	f.gotConfirm = in
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &usecase.PhoneConfirmOutput{Token: "tok", User: testUser}, nil
}

func (f *fakeUC) Profile(ctx context.Context) (*usecase.ProfileOutput, error) {
	f.gotClaims = jwt.GetAuth(ctx)
	return &usecase.ProfileOutput{User: testUser}, nil
}

func (f *fakeUC) UserList(_ context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error) {
	f.gotList = in
	return &usecase.UserListOutput{Users: []entity.User{testUser}}, nil
}

func (f *fakeUC) UserDetail(_ context.Context, in usecase.UserDetailInput) (*usecase.UserDetailOutput, error) {
	if in.ID != testUser.ID {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	return &usecase.UserDetailOutput{User: testUser}, nil
}

func (f *fakeUC) UserCreate(_ context.Context, in usecase.UserCreateInput) (*usecase.UserCreateOutput, error) {
	return &usecase.UserCreateOutput{User: entity.User{ID: 7, Name: in.Name, Email: in.Email}}, nil
}

func (f *fakeUC) UserUpdate(context.Context, usecase.UserUpdateInput) (*usecase.UserUpdateOutput, error) {
	return f.update, nil
}

func (f *fakeUC) UserDelete(context.Context, usecase.UserDeleteInput) error {
	return goerror.NewBusiness("Cannot delete the last system admin!", goerror.CodeBadRequest)
}

func (f *fakeUC) UserRoleAdd(_ context.Context, in usecase.UserRoleAddInput) (*usecase.UserRoleAddOutput, error) {
	f.gotRole = in
	return f.roleAdd, nil
}

func newServer(f *fakeUC) *router.Router {
	r := router.NewRouter(router.Config{JWT: fakeJWT{}, Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, f)
	return r
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, out any) successEnvelope {
	t.Helper()

	var env successEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode success envelope: %v (%s)", err, rec.Body.String())
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode success data: %v", err)
		}
	}
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestPhoneLoginChallenge(t *testing.T) {
	// Arrange
	expiresAt := time.Date(2026, 1, 2, 3, 9, 5, 0, time.UTC)
	f := &fakeUC{login: &usecase.PhoneLoginOutput{ExpiresAt: expiresAt}}

	// Act
	rec := do(newServer(f), http.MethodPost, "/api/v1/identity/phone/login", `{"phone":"+5511999990000","uuid":"device-a"}`, "")

	// Assert
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%s)", rec.Code, rec.Body.String())
	}
	var data PhoneLoginResponse
	decodeSuccess(t, rec, &data)
	if data.Token != "" || data.ExpiresAt == nil || !data.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("data = %+v", data)
	}
	if f.gotLogin.Phone != "+5511999990000" || f.gotLogin.DeviceUUID != "device-a" {
		t.Fatalf("input = %+v", f.gotLogin)
	}
}

func TestPhoneLoginAuthenticated(t *testing.T) {
	// Arrange
	f := &fakeUC{login: &usecase.PhoneLoginOutput{Authenticated: true, Token: "tok", User: testUser}}

	// Act
	rec := do(newServer(f), http.MethodPost, "/api/v1/identity/phone/login", `{"phone":"+5511999990000","uuid":"device-a"}`, "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data PhoneLoginResponse
	decodeSuccess(t, rec, &data)
	if data.Token != "tok" || data.User == nil || data.User.ID != testUser.ID || data.ExpiresAt != nil {
		t.Fatalf("data = %+v", data)
	}
}

func TestPhoneLoginBadBody(t *testing.T) {
	// Arrange
	f := &fakeUC{}

	// Act
	rec := do(newServer(f), http.MethodPost, "/api/v1/identity/phone/login", `{"phone":"+55","device":"x"}`, "")

	// Assert
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPhoneConfirmStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "ok", want: http.StatusOK},
		{name: "not found", err: goerror.NewBusiness("Confirmation not found or invalid", goerror.CodeNotFound), want: http.StatusNotFound},
		{name: "invalid code", err: goerror.NewBusiness("Invalid confirmation code", goerror.CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "expired", err: goerror.NewBusiness("Confirmation code expired", goerror.CodeGone), want: http.StatusGone},
		{name: "throttled", err: goerror.NewBusiness("Too many attempts", goerror.CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "validation", err: goerror.NewInvalidInput(nil, "code", "code is required"), want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := &fakeUC{confirmErr: tt.err}

			// Act
			rec := do(newServer(f), http.MethodPost, "/api/v1/identity/phone/confirm",
				`{"phone":"+5511999990000","uuid":"device-a","confirmation_code":"123456"}`, "")

			// Assert
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.err != nil {
				if env := decodeError(t, rec); env.Message == "" {
					t.Fatalf("empty error message")
				}
				return
			}
			if f.gotConfirm.Code != "123456" {
				t.Fatalf("input = %+v", f.gotConfirm)
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		uc     *fakeUC
		want   int
	}{
		{name: "profile needs token", method: http.MethodGet, path: "/api/v1/identity/profile", want: http.StatusUnauthorized},
		{name: "profile", method: http.MethodGet, path: "/api/v1/identity/profile", token: "admin-token", want: http.StatusOK},
		{name: "list", method: http.MethodGet, path: "/api/v1/identity/users?sort=desc&role=ADMIN", token: "admin-token", want: http.StatusOK},
		{name: "detail", method: http.MethodGet, path: "/api/v1/identity/users/1001", token: "admin-token", want: http.StatusOK},
		{name: "detail missing", method: http.MethodGet, path: "/api/v1/identity/users/5", token: "admin-token", want: http.StatusNotFound},
		{name: "detail bad id", method: http.MethodGet, path: "/api/v1/identity/users/abc", token: "admin-token", want: http.StatusBadRequest},
		{name: "create", method: http.MethodPost, path: "/api/v1/identity/users", body: `{"name":"New Person","email":"new@otpgate.test"}`, token: "admin-token", want: http.StatusCreated},
		{name: "update unchanged", method: http.MethodPatch, path: "/api/v1/identity/users/1001", body: `{"name":"Plain User"}`, token: "admin-token", want: http.StatusNoContent},
		{
			name: "update changed", method: http.MethodPatch, path: "/api/v1/identity/users/1001", body: `{"name":"Renamed"}`, token: "admin-token",
			uc:   &fakeUC{update: &usecase.UserUpdateOutput{User: testUser}},
			want: http.StatusOK,
		},
		{name: "delete last admin", method: http.MethodDelete, path: "/api/v1/identity/users/1", token: "admin-token", want: http.StatusBadRequest},
		{name: "role already held", method: http.MethodPut, path: "/api/v1/identity/users/1001/roles/USER", token: "admin-token", want: http.StatusNoContent},
		{
			name: "role granted", method: http.MethodPut, path: "/api/v1/identity/users/1001/roles/ADMIN", token: "admin-token",
			uc:   &fakeUC{roleAdd: &usecase.UserRoleAddOutput{User: testUser}},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := tt.uc
			if f == nil {
				f = &fakeUC{}
			}

			// Act
			rec := do(newServer(f), tt.method, tt.path, tt.body, tt.token)

			// Assert
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestUserListPassesQuery(t *testing.T) {
	// Arrange
	f := &fakeUC{}

	// Act
	rec := do(newServer(f), http.MethodGet, "/api/v1/identity/users?sort=desc&role=ADMIN", "", "admin-token")

	// Assert
	var data UsersResponse
	env := decodeSuccess(t, rec, &data)
	if f.gotList.Sort != "desc" || f.gotList.Role != "ADMIN" {
		t.Fatalf("input = %+v", f.gotList)
	}
	if len(data.Users) != 1 || data.Users[0].Roles[0] != "USER" {
		t.Fatalf("users = %+v", data.Users)
	}
	if env.Meta["total"] != float64(1) {
		t.Fatalf("meta = %v", env.Meta)
	}
}

func TestUserRoleAddPassesRole(t *testing.T) {
	// Arrange
	f := &fakeUC{}

	// Act
	do(newServer(f), http.MethodPut, "/api/v1/identity/users/1001/roles/admin", "", "admin-token")

	// Assert
	if f.gotRole.ID != 1001 || f.gotRole.Role != "admin" {
		t.Fatalf("input = %+v", f.gotRole)
	}
}
