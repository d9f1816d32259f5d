package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coaching-app/database"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	To    string
	Token string
}

func captureEmails(t *testing.T) *[]sentMail {
	t.Helper()
	var sent []sentMail

	prevConfirm := sendConfirmationEmail
	prevReset := sendPasswordResetEmail
	sendConfirmationEmail = func(to, token string) error {
		sent = append(sent, sentMail{To: to, Token: token})
		return nil
	}
	sendPasswordResetEmail = func(to, link string) error {
		sent = append(sent, sentMail{To: to, Token: link})
		return nil
	}
	t.Cleanup(func() {
		sendConfirmationEmail = prevConfirm
		sendPasswordResetEmail = prevReset
	})
	return &sent
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	r.POST("/forgot-password", RequestPasswordReset)
	r.POST("/reset-password", ResetPassword)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterCreatesUnconfirmedUserWithToken(t *testing.T) {
	testutil.SetupDB(t)
	sent := captureEmails(t)
	r := authRouter()

	w := postJSON(t, r, "/register", `{"realname": "Jo Runner", "email": "Jo@Example.com", "password": "sturdy-pass1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var user users.User
	require.NoError(t, database.DB.Where("email = ?", "jo@example.com").First(&user).Error)
	assert.Equal(t, "jo@example.com", user.Username)
	assert.False(t, user.Confirmed)
	require.NotNil(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("sturdy-pass1")))

	var token users.VerificationToken
	require.NoError(t, database.DB.Where("user_id = ? AND type = ?", user.ID, users.TokenTypeEmailConfirm).First(&token).Error)

	require.Len(t, *sent, 1)
	assert.Equal(t, "jo@example.com", (*sent)[0].To)
	assert.Equal(t, token.Token, (*sent)[0].Token)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	testutil.SetupDB(t)
	captureEmails(t)

	w := postJSON(t, authRouter(), "/register", `{"realname": "Jo", "email": "jo@example.com", "password": "short1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRequiresConfirmedEmail(t *testing.T) {
	testutil.SetupDB(t)
	sent := captureEmails(t)
	r := authRouter()

	w := postJSON(t, r, "/register", `{"realname": "Jo", "email": "jo@example.com", "password": "sturdy-pass1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *sent, 1)

	w = postJSON(t, r, "/login", `{"identifier": "jo@example.com", "password": "sturdy-pass1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, database.DB.Model(&users.User{}).
		Where("email = ?", "jo@example.com").
		Update("confirmed", true).Error)

	w = postJSON(t, r, "/login", `{"identifier": "jo@example.com", "password": "sturdy-pass1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["jwt"])
}

func TestLoginRejectsGoogleOnlyAccount(t *testing.T) {
	testutil.SetupDB(t)
	captureEmails(t)

	sub := "google-sub-1"
	require.NoError(t, database.DB.Create(&users.User{
		Username:     "jo@example.com",
		Email:        "jo@example.com",
		AuthProvider: "google",
		GoogleSub:    &sub,
		Confirmed:    true,
	}).Error)

	w := postJSON(t, authRouter(), "/login", `{"identifier": "jo@example.com", "password": "whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	testutil.SetupDB(t)
	captureEmails(t)
	r := authRouter()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass-1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashed := string(hash)
	user := users.User{
		Username:  "jo@example.com",
		Email:     "jo@example.com",
		Password:  &hashed,
		Confirmed: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	w := postJSON(t, r, "/forgot-password", `{"email": "jo@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reset users.VerificationToken
	require.NoError(t, database.DB.Where("user_id = ? AND type = ?", user.ID, users.TokenTypePasswordReset).First(&reset).Error)

	w = postJSON(t, r, "/reset-password",
		`{"code": "`+reset.Token+`", "password": "new-pass-22", "passwordConfirmation": "new-pass-22"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jwt")

	w = postJSON(t, r, "/login", `{"identifier": "jo@example.com", "password": "new-pass-22"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// The code is single use.
	w = postJSON(t, r, "/reset-password",
		`{"code": "`+reset.Token+`", "password": "another-33", "passwordConfirmation": "another-33"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	testutil.SetupDB(t)
	sent := captureEmails(t)

	w := postJSON(t, authRouter(), "/forgot-password", `{"email": "ghost@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *sent)
}
