package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPayload(username string) map[string]string {
	return map[string]string{
		"username": username,
		"password": "secret123",
		"fullname": "Test User",
		"email":    "test@example.com",
		"address":  "12 Test Lane, Dhaka",
		"phone":    "01700000000",
		"question": "Favourite color?",
		"answer":   "blue",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := setupApp(t)

	code, body := doJSON(t, app, http.MethodPost, "/create", registerPayload("alice"))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created successfully", body["message"])

	// Duplicate username is a 400 conflict.
	code, body = doJSON(t, app, http.MethodPost, "/create", registerPayload("alice"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username already exists", body["error"])

	code, body = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, body["token"])
}

func TestRegisterMissingFields(t *testing.T) {
	app, _, _ := setupApp(t)

	payload := registerPayload("bob")
	delete(payload, "question")

	code, body := doJSON(t, app, http.MethodPost, "/create", payload)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "All fields are required", body["error"])
}

func TestLoginFailureModes(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/create", registerPayload("carol"))
	require.Equal(t, http.StatusCreated, code)

	// Wrong password for an existing user.
	code, body := doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "carol",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])

	// Nonexistent username.
	code, body = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["error"])
}

func TestGetRole(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/create", registerPayload("dave"))
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, app, http.MethodPost, "/get-role", map[string]string{"username": "dave"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user", body["role"])

	code, _ = doJSON(t, app, http.MethodPost, "/get-role", map[string]string{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/create", registerPayload("erin"))
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, app, http.MethodGet, "/get-question-answer/erin", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Favourite color?", body["question"])
	assert.Equal(t, "blue", body["answer"])

	code, _ = doJSON(t, app, http.MethodGet, "/get-question-answer/ghost", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = doJSON(t, app, http.MethodPut, "/change-password", map[string]string{
		"username":    "erin",
		"newPassword": "newsecret",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password updated successfully", body["message"])

	// Old password no longer works, new one does.
	code, _ = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "erin",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "erin",
		"password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestMeRequiresToken(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/create", registerPayload("frank"))
	require.Equal(t, http.StatusCreated, code)

	_, body := doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"username": "frank",
		"password": "secret123",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Without a token.
	resp := doGET(t, app, "/me")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "frank", me["username"])
	assert.Equal(t, "user", me["role"])
}
