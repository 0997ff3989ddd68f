package businessflow

import (
	"testing"
	"time"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/app/services"
	"github.com/deelflow/deelflow-api/repository"
	testingutil "github.com/deelflow/deelflow-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthFlow(t *testing.T) (AuthFlow, *testingutil.TestDB) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("failed to teardown test database: %v", err)
		}
	})

	tokenService, err := services.NewTokenService(
		time.Hour, 24*time.Hour, "test-issuer", "test-audience",
		false, "", "", "test-secret-key-with-at-least-32-chars",
	)
	require.NoError(t, err)

	flow := NewAuthFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewUserSessionRepository(testDB.DB),
		repository.NewRoleRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		tokenService,
		testDB.DB,
	)
	return flow, testDB
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     email,
		Password:  "TestPass123!",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestAuthFlowRegister(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := testingutil.CreateTestContext()

	t.Run("SuccessfulRegistration", func(t *testing.T) {
		resp, err := flow.Register(ctx, registerRequest("jane.register@example.com"), testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "jane.register@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Session.AccessToken)
		assert.NotEmpty(t, resp.Session.RefreshToken)
		assert.Equal(t, "Bearer", resp.Session.TokenType)
	})

	t.Run("EmailIsNormalizedToLowercase", func(t *testing.T) {
		resp, err := flow.Register(ctx, registerRequest("  Mixed.Case@Example.COM "), testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "mixed.case@example.com", resp.User.Email)
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		_, err := flow.Register(ctx, registerRequest("dupe@example.com"), testMetadata())
		require.NoError(t, err)

		_, err = flow.Register(ctx, registerRequest("dupe@example.com"), testMetadata())
		require.Error(t, err)
		assert.True(t, IsEmailAlreadyExists(err))
	})
}

func TestAuthFlowLogin(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := testingutil.CreateTestContext()

	_, err := flow.Register(ctx, registerRequest("login@example.com"), testMetadata())
	require.NoError(t, err)

	t.Run("SuccessfulLogin", func(t *testing.T) {
		resp, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "TestPass123!",
		}, testMetadata())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Session.AccessToken)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "login@example.com",
			Password: "WrongPass123!",
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsIncorrectPassword(err))
	})

	t.Run("UnknownEmailRejected", func(t *testing.T) {
		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "TestPass123!",
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsUserNotFound(err))
	})
}

func TestAuthFlowRefreshRotation(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := testingutil.CreateTestContext()

	registered, err := flow.Register(ctx, registerRequest("refresh@example.com"), testMetadata())
	require.NoError(t, err)

	refreshed, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
		RefreshToken: registered.Session.RefreshToken,
	}, testMetadata())
	require.NoError(t, err)
	assert.NotEqual(t, registered.Session.RefreshToken, refreshed.Session.RefreshToken)

	// The presented refresh token is invalidated by rotation
	_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
		RefreshToken: registered.Session.RefreshToken,
	}, testMetadata())
	require.Error(t, err)
}

func TestAuthFlowLogout(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := testingutil.CreateTestContext()

	registered, err := flow.Register(ctx, registerRequest("logout@example.com"), testMetadata())
	require.NoError(t, err)

	err = flow.Logout(ctx, registered.User.ID, registered.Session.RefreshToken, testMetadata())
	require.NoError(t, err)

	_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
		RefreshToken: registered.Session.RefreshToken,
	}, testMetadata())
	require.Error(t, err)
}
