package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for phone login and user management.
type HTTPEndpoint struct {
	uc uc
}

// PhoneLogin starts or short-circuits a phone login.
// @Summary Login with phone
// @Description Returns a token when the device is already confirmed for the phone. Otherwise sends a confirmation code by SMS.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body PhoneLoginRequest true "Phone login payload"
// @Success 200 {object} router.successResponse{data=PhoneLoginResponse} "Authenticated"
// @Success 202 {object} router.successResponse{data=PhoneLoginResponse} "Confirmation code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 502 {object} router.errorResponse "SMS delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/phone/login [post]
func (h *HTTPEndpoint) PhoneLogin(r *router.Request) (any, error) {
	var req PhoneLoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PhoneLogin(r.Context(), usecase.PhoneLoginInput{
		Phone:      req.Phone,
		DeviceUUID: req.UUID,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Authenticated {
		return PhoneLoginResponse{ExpiresAt: &resp.ExpiresAt}, nil
	}

	user := toUserResponse(resp.User)
	return PhoneLoginResponse{Token: resp.Token, User: &user}, nil
}

// PhoneConfirm exchanges a confirmation code for a token.
// @Summary Confirm phone login
// @Description Verifies the code sent by PhoneLogin and binds the phone to the device.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body PhoneConfirmRequest true "Phone confirm payload"
// @Success 200 {object} router.successResponse{data=PhoneConfirmResponse} "Authenticated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid confirmation code"
// @Failure 404 {object} router.errorResponse "Confirmation not found or invalid"
// @Failure 410 {object} router.errorResponse "Confirmation code expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/phone/confirm [post]
func (h *HTTPEndpoint) PhoneConfirm(r *router.Request) (any, error) {
	var req PhoneConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PhoneConfirm(r.Context(), usecase.PhoneConfirmInput{
		Phone:      req.Phone,
		DeviceUUID: req.UUID,
		Code:       req.ConfirmationCode,
	})
	if err != nil {
		return nil, err
	}

	return PhoneConfirmResponse{Token: resp.Token, User: toUserResponse(resp.User)}, nil
}

// @Summary Current user profile
// @Tags Identity, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{User: toUserResponse(resp.User)}, nil
}

// UserList returns users sorted by name.
// @Summary List users
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param sort query string false "Sort by name, asc or desc"
// @Param role query string false "Only users holding the role (ADMIN or USER)"
// @Success 200 {object} router.successResponse{data=UsersResponse} "User list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Invalid query parameters"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	resp, err := h.uc.UserList(r.Context(), usecase.UserListInput{
		Sort: r.GetQuery("sort"),
		Role: r.GetQuery("role"),
	})
	if err != nil {
		return nil, err
	}

	return toUsersResponse(resp.Users), nil
}

// @Summary User detail
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} router.successResponse{data=UserDetailResponse} "User"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users/{id} [get]
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return UserDetailResponse{User: toUserResponse(resp.User)}, nil
}

// @Summary Create user
// @Tags Identity, Management Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UserCreateRequest true "User creation payload"
// @Success 201 {object} router.successResponse{data=UserCreateResponse} "User created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Email or phone already in use"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users [post]
func (h *HTTPEndpoint) UserCreate(r *router.Request) (any, error) {
	var req UserCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UserCreate(r.Context(), usecase.UserCreateInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Roles:    req.Roles,
	})
	if err != nil {
		return nil, err
	}

	return UserCreateResponse{User: toUserResponse(resp.User)}, nil
}

// @Summary Rename user
// @Tags Identity, Management Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UserUpdateRequest true "User update payload"
// @Success 200 {object} router.successResponse{data=UserDetailResponse} "User updated"
// @Success 204 "Nothing changed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users/{id} [patch]
func (h *HTTPEndpoint) UserUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UserUpdate(r.Context(), usecase.UserUpdateInput{ID: id, Name: req.Name})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	return UserDetailResponse{User: toUserResponse(resp.User)}, nil
}

// @Summary Delete user
// @Description Deletes a user by ID. The last ADMIN cannot be deleted.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter or last admin"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Grant role
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Param role path string true "Role name (ADMIN or USER)"
// @Success 200 {object} router.successResponse{data=UserDetailResponse} "Role granted"
// @Success 204 "Role already held"
// @Failure 400 {object} router.errorResponse "Unknown role"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users/{id}/roles/{role} [put]
func (h *HTTPEndpoint) UserRoleAdd(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserRoleAdd(r.Context(), usecase.UserRoleAddInput{ID: id, Role: r.GetParam("role")})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	return UserDetailResponse{User: toUserResponse(resp.User)}, nil
}
