// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/message"
	"github.com/taibuivan/advisor/internal/platform/middleware"
	requestutil "github.com/taibuivan/advisor/internal/platform/request"
	"github.com/taibuivan/advisor/internal/platform/respond"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the member HTTP endpoints.
type Handler struct {
	accountService *Service
	messages       *message.Catalog
	frontDomains   []string
	tokenValidity  int
}

// NewHandler constructs a [Handler]. The login cookie is set once per front domain.
func NewHandler(service *Service, messages *message.Catalog, frontDomains []string) *Handler {
	return &Handler{
		accountService: service,
		messages:       messages,
		frontDomains:   frontDomains,
		tokenValidity:  int(service.tokens.Validity().Seconds()),
	}
}

// Routes returns the member routes, mounted at /api/v1/members.
//
// # Endpoints
//   - POST /join            : Registers a member.
//   - POST /login           : Issues a token and sets the login cookies.
//   - POST /find-email      : Masked email for name and mobile.
//   - POST /find-password   : Mails a password reset link.
//   - POST /change-password : Consumes a reset token.
//   - GET  /                : Authenticated member's profile.
//   - POST /refresh         : New token for a valid bearer token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/join", handler.join)
	router.Post("/login", handler.login)
	router.Post("/find-email", handler.findEmail)
	router.Post("/find-password", handler.findPassword)
	router.Post("/change-password", handler.changePassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.messages))
		r.Get("/", handler.me)
		r.Post("/refresh", handler.refresh)
	})

	return router
}

// AdminRoutes returns the administrative routes, mounted at /api/v1/admin/members.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuthority(handler.messages, sec.AuthorityAdmin))

	router.Get("/{id}", handler.member)
	router.Patch("/{id}/authorities", handler.updateAuthorities)

	return router
}

// # Request Payloads

type joinRequest struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	Name            string   `json:"name"`
	Mobile          string   `json:"mobile"`
	RequiredTerms   bool     `json:"requiredTerms"`
	OptionalTerms   []string `json:"optionalTerms"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type findRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Origin string `json:"origin"`
}

type changePasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type authoritiesRequest struct {
	Authorities []string `json:"authorities"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// # Handlers

/*
POST /api/v1/members/join

Response:
  - 201: Session: token and created member
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) join(writer http.ResponseWriter, request *http.Request) {
	var input joinRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	session, err := handler.accountService.Register(request.Context(), RegisterInput(input))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
POST /api/v1/members/login

Sets "token" cookies on every configured front domain.

Response:
  - 200: tokenResponse
  - 401: Invalid credentials
  - 403: Disabled member
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	session, err := handler.accountService.Login(request.Context(), LoginInput(input))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	for _, domain := range handler.frontDomains {
		http.SetCookie(writer, &http.Cookie{
			Name:     constants.LoginCookieName,
			Value:    session.Token,
			Path:     "/",
			Domain:   domain,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteNoneMode,
		})
	}

	respond.OK(writer, handler.tokenResponse(session.Token))
}

/*
GET /api/v1/members/

Response:
  - 200: Identity of the caller
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, ok := requestutil.Principal(request)
	if !ok {
		handler.unauthenticated(writer, request)
		return
	}

	identity, err := handler.accountService.Me(request.Context(), principal)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
POST /api/v1/members/refresh

Response:
  - 200: tokenResponse with a fresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token, ok := sec.BearerToken(request.Header.Get(constants.HeaderAuthorization))
	if !ok {
		handler.unauthenticated(writer, request)
		return
	}

	refreshed, err := handler.accountService.Refresh(request.Context(), token)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, handler.tokenResponse(refreshed))
}

/*
POST /api/v1/members/find-email

Response:
  - 200: {"email": masked email}
  - 404: No member with that name and mobile
*/
func (handler *Handler) findEmail(writer http.ResponseWriter, request *http.Request) {
	var input findRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	email, err := handler.accountService.FindEmail(request.Context(), input.Name, input.Mobile)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{auth.FieldEmail: email})
}

/*
POST /api/v1/members/find-password

Response:
  - 200: {"message": localized confirmation}
  - 404: No member with that name and mobile
*/
func (handler *Handler) findPassword(writer http.ResponseWriter, request *http.Request) {
	var input findRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	err := handler.accountService.RequestPasswordReset(request.Context(), PasswordResetInput{
		Name:    input.Name,
		Mobile:  input.Mobile,
		Origin:  input.Origin,
		Subject: handler.messages.Resolve(request, message.SubjectPasswordChange),
	})
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: handler.messages.Resolve(request, message.ResetLinkSent),
	})
}

/*
POST /api/v1/members/change-password

Response:
  - 200: {"message": localized confirmation}
  - 400: Validation failure or expired token
  - 404: Unknown token
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), ChangePasswordInput(input)); err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: handler.messages.Resolve(request, message.PasswordChanged),
	})
}

/*
GET /api/v1/admin/members/{id}
*/
func (handler *Handler) member(writer http.ResponseWriter, request *http.Request) {
	identity, err := handler.accountService.Member(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
PATCH /api/v1/admin/members/{id}/authorities

Response:
  - 200: Updated identity
  - 400: Unknown authority
  - 404: Unknown member
*/
func (handler *Handler) updateAuthorities(writer http.ResponseWriter, request *http.Request) {
	var input authoritiesRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		handler.fail(writer, request, err)
		return
	}

	identity, err := handler.accountService.UpdateAuthorities(request.Context(), requestutil.Param(request, "id"), input.Authorities)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// # Error Translation

func (handler *Handler) tokenResponse(token string) tokenResponse {
	return tokenResponse{
		Token:     token,
		TokenType: constants.BearerScheme,
		ExpiresIn: handler.tokenValidity,
	}
}

func (handler *Handler) unauthenticated(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.Unauthorized(handler.messages.Resolve(request, message.AuthenticationRequired)))
}

// localize returns a copy of appErr whose message and field messages are
// resolved as message codes. Plain text is left as is.
func localize(appErr *apperr.AppError, resolve func(code string) string) *apperr.AppError {
	localized := *appErr
	localized.Message = resolve(appErr.Message)
	if appErr.Details != nil {
		localized.Details = make([]apperr.FieldError, len(appErr.Details))
		for i, detail := range appErr.Details {
			localized.Details[i] = apperr.FieldError{Field: detail.Field, Message: resolve(detail.Message)}
		}
	}
	return &localized
}

// fail translates domain errors into localized [apperr.AppError] values.
// Anything left untranslated becomes a 500 in [respond.Error].
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	respond.Error(writer, request, handler.translate(request, err))
}

func (handler *Handler) translate(request *http.Request, err error) error {
	resolve := func(code string) string { return handler.messages.Resolve(request, code) }

	if appErr := apperr.As(err); appErr != nil {
		return localize(appErr, resolve)
	}

	if tokenErr := sec.AsTokenError(err); tokenErr != nil {
		return apperr.Unauthorized(resolve(tokenErr.Kind.MessageCode())).WithCode(tokenErr.Kind.ErrorCode()).WithCause(err)
	}

	switch {
	case errors.Is(err, ErrLoginFailed):
		return apperr.Unauthorized(resolve(message.LoginFailed)).WithCode(apperr.CodeLoginFailed)
	case errors.Is(err, ErrMemberDisabled):
		return apperr.Forbidden(resolve(message.MemberDisabled)).WithCode(apperr.CodeMemberDisabled)
	case errors.Is(err, auth.ErrIdentityExists):
		return apperr.Conflict(resolve(message.MemberDuplicated)).WithCode(apperr.CodeDuplicatedEmail)
	case errors.Is(err, auth.ErrIdentityNotFound):
		return apperr.NotFound("Member").WithMessage(resolve(message.MemberNotFound)).WithCode(apperr.CodeMemberNotFound)
	case errors.Is(err, auth.ErrTempTokenNotFound):
		return apperr.NotFound("Token").WithMessage(resolve(message.TempTokenNotFound)).WithCode(apperr.CodeTempTokenNotFound)
	case errors.Is(err, auth.ErrTempTokenExpired):
		return apperr.ValidationError(resolve(message.TempTokenExpired)).WithCode(apperr.CodeTempTokenExpired)
	default:
		return err
	}
}
