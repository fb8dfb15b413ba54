package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/angelmondragon/smokehouse-backend/internal/ledger"
	pkgAuth "github.com/angelmondragon/smokehouse-backend/pkg/auth"
	"github.com/angelmondragon/smokehouse-backend/pkg/auth/session"
	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/migrate/migratetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]string{}}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "refresh-" + accessID
	f.sessions[accessID] = userID.String() + "|" + token
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	f.mu.Lock()
	stored, ok := f.sessions[oldAccessID]
	f.mu.Unlock()
	if !ok || stored != userID.String()+"|"+provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	f.mu.Lock()
	delete(f.sessions, oldAccessID)
	f.mu.Unlock()
	next := uuid.NewString()
	token, _ := f.Generate(ctx, next, userID)
	return next, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, accessID)
	return nil
}

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (f fakeGoogle) Verify(ctx context.Context, rawToken string) (*GoogleProfile, error) {
	return f.profile, f.err
}

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "smokehouse", ExpirationMinutes: 15}

func newTestService(t *testing.T, google GoogleVerifier) (*service, *fakeSessions) {
	t.Helper()
	client := migratetest.Open(t)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(client.DB()))
	require.NoError(t, err)
	sessions := newFakeSessions()
	svc, err := NewService(ServiceParams{
		DB:             client,
		Ledger:         ledgerSvc,
		SessionManager: sessions,
		Google:         google,
		JWTConfig:      testJWT,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	})
	require.NoError(t, err)
	return svc.(*service), sessions
}

func requireProviderCode(t *testing.T, err error, code string) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, map[string]string{"code": code}, typed.Details())
	require.Equal(t, FriendlyMessage(code), typed.Message())
}

func TestRegisterAndPasswordSignIn(t *testing.T) {
	svc, sessions := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: "Vape@Example.com", Password: "secret1", Name: "Оля"})
	require.NoError(t, err)
	require.Equal(t, "vape@example.com", resp.User.Email)
	require.True(t, resp.User.Balance.IsZero())
	require.Len(t, sessions.sessions, 1)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, enums.SignInMethodPassword, claims.Method)

	_, err = svc.Register(ctx, RegisterRequest{Email: "vape@example.com", Password: "secret1"})
	requireProviderCode(t, err, CodeEmailAlreadyInUse)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.SignIn(ctx, enums.SignInMethodPassword, Credentials{Email: "vape@example.com", Password: "nope!!"})
	requireProviderCode(t, err, CodeWrongPassword)

	_, err = svc.SignIn(ctx, enums.SignInMethodPassword, Credentials{Email: "ghost@example.com", Password: "secret1"})
	requireProviderCode(t, err, CodeUserNotFound)

	signedIn, err := svc.SignIn(ctx, enums.SignInMethodPassword, Credentials{Email: " VAPE@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, signedIn.User.ID)
	require.NotNil(t, signedIn.User.LastLoginAt)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "secret1"})
	requireProviderCode(t, err, CodeInvalidEmail)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.ua", Password: ""})
	requireProviderCode(t, err, CodeMissingPassword)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.ua", Password: "123"})
	requireProviderCode(t, err, CodeWeakPassword)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGoogleSignInCreatesUserOnce(t *testing.T) {
	google := fakeGoogle{profile: &GoogleProfile{Email: "fan@gmail.com", Name: "Fan", Picture: "https://img/fan.png", EmailVerified: true}}
	svc, _ := newTestService(t, google)
	ctx := context.Background()

	first, err := svc.SignIn(ctx, enums.SignInMethodGoogle, Credentials{IDToken: "token"})
	require.NoError(t, err)
	require.Equal(t, enums.SignInMethodGoogle, first.User.Provider)
	require.Equal(t, "https://img/fan.png", first.User.PhotoURL)

	second, err := svc.SignIn(ctx, enums.SignInMethodGoogle, Credentials{IDToken: "token"})
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)

	_, err = svc.SignIn(ctx, enums.SignInMethodPassword, Credentials{Email: "fan@gmail.com", Password: "whatever"})
	requireProviderCode(t, err, CodeInvalidCredential)
}

func TestGoogleSignInFailures(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.SignIn(context.Background(), enums.SignInMethodGoogle, Credentials{IDToken: "token"})
	requireProviderCode(t, err, CodeOperationNotAllowed)

	svc, _ = newTestService(t, fakeGoogle{err: errors.New("bad audience")})
	_, err = svc.SignIn(context.Background(), enums.SignInMethodGoogle, Credentials{IDToken: "token"})
	requireProviderCode(t, err, CodeInvalidCredential)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: "loop@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	requireProviderCode(t, err, CodeInvalidCredential)

	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, claims.ID))
	_, err = svc.Refresh(ctx, RefreshRequest{AccessToken: refreshed.AccessToken, RefreshToken: refreshed.RefreshToken})
	require.Error(t, err)
}

func TestAdjustBalanceWritesLedgerAndPublishes(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: "points@example.com", Password: "secret1"})
	require.NoError(t, err)
	userID := resp.User.ID
	require.NoError(t, svc.SetBalance(ctx, userID, decimal.NewFromInt(100)))

	var updates []BalanceUpdate
	unsubscribe := svc.SubscribeBalance(userID, func(u BalanceUpdate) { updates = append(updates, u) })
	defer unsubscribe()

	balance, err := svc.AdjustBalance(ctx, userID, "SH-1",
		Adjustment{Type: enums.PointsEventRedeem, Amount: decimal.NewFromInt(-100)},
		Adjustment{Type: enums.PointsEventEarn, Amount: decimal.Zero},
	)
	require.NoError(t, err)
	require.True(t, balance.IsZero(), "got %s", balance)
	require.Len(t, updates, 1)
	require.True(t, updates[0].Balance.IsZero())

	var events []models.PointsEvent
	require.NoError(t, svc.db.DB().Where("user_id = ?", userID).Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, enums.PointsEventRedeem, events[0].Type)
	require.Equal(t, "SH-1", events[0].OrderRef)
}

func TestAdjustBalanceRollsBackWhenNegative(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: "broke@example.com", Password: "secret1"})
	require.NoError(t, err)
	userID := resp.User.ID

	_, err = svc.AdjustBalance(ctx, userID, "SH-2",
		Adjustment{Type: enums.PointsEventEarn, Amount: decimal.NewFromInt(10)},
		Adjustment{Type: enums.PointsEventRedeem, Amount: decimal.NewFromInt(-50)},
	)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	require.True(t, balance.IsZero(), "earn must be rolled back, got %s", balance)

	var count int64
	require.NoError(t, svc.db.DB().Model(&models.PointsEvent{}).Where("user_id = ?", userID).Count(&count).Error)
	require.Zero(t, count)
}

func TestFriendlyMessageFallback(t *testing.T) {
	require.Equal(t, "НЕВІРНИЙ ПАРОЛЬ ❌", FriendlyMessage(CodeWrongPassword))
	require.Equal(t, fallbackMessage, FriendlyMessage("auth/something-new"))
	require.True(t, pkgerrors.IsCode(ProviderError(CodeTooManyRequests), pkgerrors.CodeRateLimit))
}
