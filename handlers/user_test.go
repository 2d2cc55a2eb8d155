package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/utils"
)

func newUserEnv(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &UserHandler{DB: db}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	})
	router.POST("/user/password", h.ChangePassword)
	router.POST("/user/2fa/setup", h.SetupTOTP)
	router.POST("/user/2fa/verify", h.VerifyTOTP)
	return router, mock
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	router, mock := newUserEnv(t)

	hash, err := utils.HashPassword("actual-password")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT password_hash").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(hash))

	w := doJSON(t, router, http.MethodPost, "/user/password", models.ChangePasswordRequest{
		CurrentPassword: "guess",
		NewPassword:     "new-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupTOTPStoresEncryptedSecret(t *testing.T) {
	router, mock := newUserEnv(t)
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	mock.ExpectQuery("SELECT email").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("traveler@example.com"))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, router, http.MethodPost, "/user/2fa/setup", struct{}{})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.TOTPSetupResponse](t, w)
	assert.NotEmpty(t, resp.Secret)
	assert.Contains(t, resp.URL, "otpauth://")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyTOTPWithoutSetup(t *testing.T) {
	router, mock := newUserEnv(t)

	mock.ExpectQuery("SELECT totp_secret").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"totp_secret"}).AddRow(nil))

	w := doJSON(t, router, http.MethodPost, "/user/2fa/verify", models.VerifyTOTPRequest{
		Code: "123456",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
