package authController

import (
	"bytes"
	"encoding/json"
	"io"
	"lms/config"
	"lms/database"
	"lms/models"
	authValidator "lms/validators/auth"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return resp, envelope
}

func TestSignupAndLogin(t *testing.T) {
	app := setupAuthTest(t)

	resp, _ := postJSON(t, app, "/auth/signup", map[string]interface{}{
		"name":     "Ayesha",
		"email":    "ayesha@example.com",
		"mobile":   "03001234567",
		"cnic":     "3520212345671",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "ayesha@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	app := setupAuthTest(t)

	body := map[string]interface{}{
		"name":     "Ayesha",
		"email":    "ayesha@example.com",
		"password": "supersecret",
	}

	resp, _ := postJSON(t, app, "/auth/signup", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/auth/signup", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email is already registered!", envelope["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	app := setupAuthTest(t)

	resp, _ := postJSON(t, app, "/auth/signup", map[string]interface{}{
		"name":     "Ayesha",
		"email":    "ayesha@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "ayesha@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials!", envelope["message"])
}
