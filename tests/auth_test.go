package tests

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":     "New User",
		"email":    "newuser@example.com",
		"password": "password123",
	}, "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "New User", user["name"])
	assert.Equal(t, "newuser@example.com", user["email"])
}

func TestRegisterValidation(t *testing.T) {
	resp, _ := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Short Password",
		"email":    "short@example.com",
		"password": "123",
	}, "")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	payload := map[string]string{
		"name":     "Dup User",
		"email":    "dup@example.com",
		"password": "password123",
	}
	resp, _ := doJSON(t, "POST", "/api/auth/register", payload, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, "POST", "/api/auth/register", payload, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "password",
	}, "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])
}

func TestLoginWrongPassword(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	}, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", result["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	}, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", result["error"])
}

func TestGetProfile(t *testing.T) {
	resp, result := doJSON(t, "GET", "/api/user/profile", nil, jwtToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Test User", result["name"])
	assert.Equal(t, "test@example.com", result["email"])

	prefs := result["preferences"].(map[string]interface{})
	assert.Equal(t, "reading", prefs["learningStyle"])
	assert.Equal(t, "beginner", prefs["difficultyLevel"])
}

func TestGetProfileUnauthorized(t *testing.T) {
	resp, _ := doJSON(t, "GET", "/api/user/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	resp, result := doJSON(t, "PUT", "/api/user/profile", map[string]string{
		"learningStyle":   "visual",
		"difficultyLevel": "intermediate",
	}, jwtToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Profile updated", result["message"])

	_, profile := doJSON(t, "GET", "/api/user/profile", nil, jwtToken)
	prefs := profile["preferences"].(map[string]interface{})
	assert.Equal(t, "visual", prefs["learningStyle"])
	assert.Equal(t, "intermediate", prefs["difficultyLevel"])

	// Restore defaults for the other tests
	doJSON(t, "PUT", "/api/user/profile", map[string]string{
		"learningStyle":   "reading",
		"difficultyLevel": "beginner",
	}, jwtToken)
}

func TestUpdateProfileInvalidStyle(t *testing.T) {
	resp, _ := doJSON(t, "PUT", "/api/user/profile", map[string]string{
		"learningStyle": "telepathy",
	}, jwtToken)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
