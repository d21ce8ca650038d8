package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazirlageldim/pickup-app/models"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupEnv(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "ayse@example.com",
		"password":  "secret123",
		"full_name": "Ayşe Yılmaz",
		"user_type": "customer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		UserID string `json:"user_id"`
	}
	decodeData(t, w, &created)
	assert.NotEmpty(t, created.UserID)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ayse@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, w, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, created.UserID, login.User.ID)
	assert.Equal(t, models.UserTypeCustomer, login.User.UserType)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, db := setupEnv(t)
	seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ayse@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupEnv(t)

	// bad email
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "secret123", "full_name": "X", "user_type": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// short password
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@example.com", "password": "123", "full_name": "X", "user_type": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown user type
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@example.com", "password": "secret123", "full_name": "X", "user_type": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordNeverRevealsAccounts(t *testing.T) {
	r, db := setupEnv(t)
	seedUser(t, db, "known@example.com", models.UserTypeCustomer)

	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		w := doJSON(t, r, http.MethodPost, "/auth/reset-password", "", map[string]string{"email": email})
		assert.Equal(t, http.StatusOK, w.Code, email)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	r, db := setupEnv(t)
	user, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)

	w := doJSON(t, r, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	decodeData(t, w, &got)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.Password, "password hash must never serialize")
}
