package http_handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/response"
)

// AuthHandler serves everything under /api/v1/auth.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type validatable interface{ Validate() error }

// bind decodes the JSON body into dst and validates it. On failure the error
// response has already been written.
func bind(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	err := response.DecodeJSON(w, r, dst)
	if err == nil {
		err = dst.Validate()
	}
	if err != nil {
		response.WriteError(w, r, err)
		return false
	}
	return true
}

// callerClaim returns the claim placed by the Auth middleware.
func callerClaim(w http.ResponseWriter, r *http.Request) (domain.SessionClaim, bool) {
	c, ok := middleware.ClaimFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
	}
	return c, ok
}

// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !bind(w, r, &req) {
		return
	}

	u, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	middleware.CountAuth(middleware.OpRegister, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().Int64("user_id", u.ID).Msg("user_registered")
	response.Created(w, "User created successfully", dto.NewUserView(u.Public()))
}

// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	middleware.CountAuth(middleware.OpLogin, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().Int64("user_id", res.Payload.UserID).Msg("user_logged_in")
	response.OK(w, "Login successful", dto.NewLoginData(res))
}

// GET /getProfile, behind Auth.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claim, ok := callerClaim(w, r)
	if !ok {
		return
	}

	u, err := h.svc.CurrentUser(r.Context(), claim)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, "User retrieved successfully", dto.NewUserView(u))
}

// GET /
func (h *AuthHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseListQuery(r.URL.Query())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.ListUsers(r.Context(), q)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Page(w, "Users retrieved successfully", dto.NewUserViews(res.Users), dto.NewListMetadata(res))
}

// POST /logout. The Authorization value is blacklisted exactly as sent,
// until the token's own expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Logout(r.Context(), r.Header.Get("Authorization"))
	middleware.CountAuth(middleware.OpLogout, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, "Logout successful", dto.NewBlacklistView(rec))
}

// POST /update?user_id=&email=, behind Auth.
func (h *AuthHandler) Update(w http.ResponseWriter, r *http.Request) {
	claim, ok := callerClaim(w, r)
	if !ok {
		return
	}
	target, err := dto.ParseUpdateTarget(r.URL.Query())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	var req dto.UpdateRequest
	if !bind(w, r, &req) {
		return
	}

	u, err := h.svc.Update(r.Context(), claim, target.Selector(), auth.UpdateInput{
		Name:     req.Name,
		Password: req.Password,
	})
	middleware.CountAuth(middleware.OpUpdate, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, "User updated successfully", dto.NewUserView(u))
}
