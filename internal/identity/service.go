package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/angelmondragon/smokehouse-backend/internal/ledger"
	"github.com/angelmondragon/smokehouse-backend/internal/users"
	pkgAuth "github.com/angelmondragon/smokehouse-backend/pkg/auth"
	"github.com/angelmondragon/smokehouse-backend/pkg/auth/session"
	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/db"
	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/observer"
	"github.com/angelmondragon/smokehouse-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the storefront's identity backend: sign-in, sessions and the
// loyalty balance.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	SignIn(ctx context.Context, method enums.SignInMethod, creds Credentials) (*SessionResponse, error)
	SignOut(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, req RefreshRequest) (*SessionResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	SetBalance(ctx context.Context, userID uuid.UUID, value decimal.Decimal) error
	AdjustBalance(ctx context.Context, userID uuid.UUID, orderRef string, adjustments ...Adjustment) (decimal.Decimal, error)
	SubscribeBalance(userID uuid.UUID, cb func(BalanceUpdate)) func()
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	db          *db.Client
	users       *users.Repository
	ledger      ledger.Service
	sessions    sessionManager
	google      GoogleVerifier
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	balances    *observer.Hub[BalanceUpdate]
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build the identity service.
type ServiceParams struct {
	DB             *db.Client
	Ledger         ledger.Service
	SessionManager sessionManager
	// Google is optional; without it the google method is reported as unavailable.
	Google         GoogleVerifier
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs the identity service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		db:          params.DB,
		users:       users.NewRepository(params.DB.DB()),
		ledger:      params.Ledger,
		sessions:    params.SessionManager,
		google:      params.Google,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		balances:    observer.NewHub[BalanceUpdate](),
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, ProviderError(CodeMissingPassword)
	}
	if err := security.CheckStrength(req.Password); err != nil {
		return nil, providerError(CodeWeakPassword, err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ProviderError(CodeEmailAlreadyInUse)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		Name:         req.Name,
		PasswordHash: &hash,
		Provider:     enums.SignInMethodPassword,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, providerError(CodeEmailAlreadyInUse, err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueSession(ctx, user, enums.SignInMethodPassword)
}

func (s *service) SignIn(ctx context.Context, method enums.SignInMethod, creds Credentials) (*SessionResponse, error) {
	switch method {
	case enums.SignInMethodPassword:
		user, err := s.authenticatePassword(ctx, creds.Email, creds.Password)
		if err != nil {
			return nil, err
		}
		return s.issueSession(ctx, user, method)
	case enums.SignInMethodGoogle:
		user, err := s.authenticateGoogle(ctx, creds.IDToken)
		if err != nil {
			return nil, err
		}
		return s.issueSession(ctx, user, method)
	default:
		return nil, ProviderError(CodeOperationNotAllowed)
	}
}

func (s *service) SignOut(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*SessionResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, providerError(CodeInvalidCredential, err)
	}

	newAccessID, refreshToken, err := s.sessions.Rotate(ctx, claims.ID, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, providerError(CodeInvalidCredential, err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ProviderError(CodeUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Method: claims.Method,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	balance, err := s.users.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load balance")
	}
	return balance, nil
}

func (s *service) SetBalance(ctx context.Context, userID uuid.UUID, value decimal.Decimal) error {
	if value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "balance cannot be negative")
	}
	if err := s.users.SetBalance(ctx, userID, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set balance")
	}
	s.balances.Publish(userID.String(), BalanceUpdate{UserID: userID, Balance: value})
	return nil
}

// AdjustBalance applies every non-zero adjustment and its ledger row inside
// one transaction. A result below zero rolls the whole set back.
func (s *service) AdjustBalance(ctx context.Context, userID uuid.UUID, orderRef string, adjustments ...Adjustment) (decimal.Decimal, error) {
	pending := make([]Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if !adj.Amount.IsZero() {
			pending = append(pending, adj)
		}
	}
	if len(pending) == 0 {
		return s.Balance(ctx, userID)
	}

	var balance decimal.Decimal
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		ledgerSvc := s.ledger.WithTx(tx)

		for _, adj := range pending {
			next, err := userRepo.IncrementBalance(ctx, userID, adj.Amount)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment balance")
			}
			if next.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient points balance")
			}
			if _, err := ledgerSvc.RecordEvent(ctx, ledger.RecordPointsEventInput{
				UserID:   userID,
				OrderRef: orderRef,
				Type:     adj.Type,
				Amount:   adj.Amount,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record points event")
			}
			balance = next
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.balances.Publish(userID.String(), BalanceUpdate{UserID: userID, Balance: balance})
	return balance, nil
}

func (s *service) SubscribeBalance(userID uuid.UUID, cb func(BalanceUpdate)) func() {
	return s.balances.Subscribe(userID.String(), cb)
}

func (s *service) authenticatePassword(ctx context.Context, email, password string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ProviderError(CodeMissingPassword)
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ProviderError(CodeUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.PasswordHash == nil {
		return nil, ProviderError(CodeInvalidCredential)
	}

	valid, err := security.VerifyPassword(password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, ProviderError(CodeWrongPassword)
	}
	return user, nil
}

// authenticateGoogle verifies the ID token and creates the user on first sign-in.
func (s *service) authenticateGoogle(ctx context.Context, idToken string) (*models.User, error) {
	if s.google == nil {
		return nil, ProviderError(CodeOperationNotAllowed)
	}
	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, providerError(CodeInvalidCredential, err)
	}
	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	user, err = s.users.Create(ctx, users.CreateUserDTO{
		Email:    email,
		Name:     profile.Name,
		PhotoURL: profile.Picture,
		Provider: enums.SignInMethodGoogle,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return s.users.FindByEmail(ctx, email)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

func (s *service) issueSession(ctx context.Context, user *models.User, method enums.SignInMethod) (*SessionResponse, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Method: method,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", ProviderError(CodeInvalidEmail)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ProviderError(CodeInvalidEmail)
	}
	return trimmed, nil
}
