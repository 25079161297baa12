package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	identityapp "github.com/zreport/backend/internal/application/identity"
	mdapp "github.com/zreport/backend/internal/application/masterdata"
	reportapp "github.com/zreport/backend/internal/application/zreport"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/infrastructure/auth"
	"github.com/zreport/backend/internal/infrastructure/cache"
	"github.com/zreport/backend/internal/infrastructure/config"
	"github.com/zreport/backend/internal/infrastructure/persistence"
	"github.com/zreport/backend/internal/interfaces/http/dto"
	"github.com/zreport/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

type testEnv struct {
	engine     *gin.Engine
	jwt        *auth.JWTService
	admin      *identity.User
	accounting *identity.User
	till       *masterdata.Till
	cashier    *masterdata.Cashier
	terminal   *masterdata.Terminal
	bank       *masterdata.Bank
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	users := persistence.NewGormUserRepository(db.DB)
	admin, err := identity.NewUser("admin@local", testPassword, identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, admin))
	accounting, err := identity.NewUser("accounting@local", testPassword, identity.RoleAccounting)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, accounting))

	md := reportapp.MasterData{
		Tills:     persistence.NewGormTillRepository(db.DB),
		Banks:     persistence.NewGormBankRepository(db.DB),
		Terminals: persistence.NewGormTerminalRepository(db.DB),
		Cashiers:  persistence.NewGormCashierRepository(db.DB),
	}

	till, err := masterdata.NewTill(1, "FM-1")
	require.NoError(t, err)
	require.NoError(t, md.Tills.Save(ctx, till))
	cashier, err := masterdata.NewCashier("Ayşe")
	require.NoError(t, err)
	require.NoError(t, md.Cashiers.Save(ctx, cashier))
	bank, err := masterdata.NewBank("Garanti")
	require.NoError(t, err)
	require.NoError(t, md.Banks.Save(ctx, bank))
	terminal, err := masterdata.NewTerminal("T-1", "Front POS", "2,5", &bank.ID)
	require.NoError(t, err)
	require.NoError(t, md.Terminals.Save(ctx, terminal))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "zreport-test",
	})
	authService := identityapp.NewAuthService(users, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	reportService := reportapp.NewService(
		persistence.NewGormReportRepository(db.DB),
		md,
		cache.NewInProcessLocker(),
		nil,
		reportapp.DefaultServiceConfig(),
		zap.NewNop(),
	)
	mdService := mdapp.NewService(md.Tills, md.Banks, md.Terminals, md.Cashiers, zap.NewNop())

	authHandler := NewAuthHandler(authService)
	reports := NewReportHandler(reportService)
	mdHandler := NewMasterDataHandler(mdService)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("", middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: authService,
	}))
	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	secured.PUT("/reports", reports.Upsert)
	secured.GET("/reports", reports.List)
	secured.GET("/reports/export", reports.Export)
	secured.GET("/reports/calendar", reports.Calendar)
	secured.GET("/reports/:id", reports.Get)
	secured.POST("/reports/:id/submit", reports.Submit)
	secured.POST("/reports/:id/lock", reports.Lock)

	secured.GET("/tills", mdHandler.ListTills)
	secured.POST("/tills", mdHandler.CreateTill)
	secured.GET("/tills/:id", mdHandler.GetTill)
	secured.PUT("/tills/:id", mdHandler.UpdateTill)
	secured.GET("/banks", mdHandler.ListBanks)
	secured.POST("/banks", mdHandler.CreateBank)
	secured.PUT("/banks/:id", mdHandler.UpdateBank)
	secured.GET("/terminals", mdHandler.ListTerminals)
	secured.POST("/terminals", mdHandler.CreateTerminal)
	secured.GET("/terminals/:id", mdHandler.GetTerminal)
	secured.PUT("/terminals/:id", mdHandler.UpdateTerminal)
	secured.GET("/cashiers", mdHandler.ListCashiers)
	secured.POST("/cashiers", mdHandler.CreateCashier)
	secured.PUT("/cashiers/:id", mdHandler.UpdateCashier)

	return &testEnv{
		engine:     engine,
		jwt:        jwtService,
		admin:      admin,
		accounting: accounting,
		till:       till,
		cashier:    cashier,
		terminal:   terminal,
		bank:       bank,
	}
}

func (e *testEnv) tokenFor(t *testing.T, u *identity.User) string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(auth.GenerateTokenInput{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role.String(),
	})
	require.NoError(t, err)
	return token.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the envelope and its data into out (when non-nil)
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var env struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env.Response
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, rec, nil)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func (e *testEnv) reportBody(date string) map[string]any {
	return map[string]any{
		"date":            date,
		"till_id":         e.till.ID,
		"shift":           1,
		"cashier_id":      e.cashier.ID,
		"receipt_revenue": "1.000,00",
		"invoice_revenue": "250,50",
		"returns_amount":  "50,50",
		"vat_amounts":     map[string]string{"VAT10": "110,00"},
		"terminals": []map[string]any{
			{"terminal_id": e.terminal.ID, "amount": "500,00"},
		},
	}
}
