package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/api/validators"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	pkgAuth "github.com/angelmondragon/smokehouse-backend/pkg/auth"
	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

// TokenHeader mirrors the access token so clients can pick it up without parsing the body.
const TokenHeader = "X-Smokehouse-Token"

type authService interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.SessionResponse, error)
	SignIn(ctx context.Context, method enums.SignInMethod, creds identity.Credentials) (*identity.SessionResponse, error)
	SignOut(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, req identity.RefreshRequest) (*identity.SessionResponse, error)
}

// Register creates a password account and signs it in.
func Register(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body identity.RegisterRequest
		if err := validators.DecodeJSON(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusCreated, result)
	}
}

// Login signs a user in with email and password.
func Login(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body identity.LoginRequest
		if err := validators.DecodeJSON(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignIn(r.Context(), enums.SignInMethodPassword, identity.Credentials{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, result)
	}
}

// Google signs a user in with a Google ID token, creating the account on first use.
func Google(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body identity.GoogleLoginRequest
		if err := validators.DecodeJSON(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignIn(r.Context(), enums.SignInMethodGoogle, identity.Credentials{IDToken: body.IDToken})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, result)
	}
}

// Logout revokes the refresh mapping tied to the presented access token.
// Expired tokens are accepted so a stale client can still sign out.
func Logout(svc authService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if err := svc.SignOut(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// Refresh rotates the refresh token and issues a new access token.
func Refresh(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body identity.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, result)
	}
}

func writeSession(w http.ResponseWriter, status int, result *identity.SessionResponse) {
	w.Header().Set(TokenHeader, result.AccessToken)
	responses.WriteSuccessStatus(w, status, result)
}

func parseBearerToken(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
