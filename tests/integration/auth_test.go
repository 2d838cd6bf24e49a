package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfileRefresh(t *testing.T) {
	app := setupApp(t)

	// Step 1: Register
	accessToken, refreshToken, userID := app.registerAdmin(t, "admin@fleet.test", "password123")
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected non-empty tokens from registration")
	}
	if userID == "" {
		t.Fatal("expected non-empty user ID")
	}

	// Step 2: Login with same credentials
	loginAccess, loginRefresh := app.loginUser(t, "admin@fleet.test", "password123")
	if loginAccess == "" || loginRefresh == "" {
		t.Fatal("expected non-empty tokens from login")
	}

	// Step 3: Access profile with login access token
	rec := app.request("GET", "/api/v1/profile", "", loginAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	if user["email"] != "admin@fleet.test" {
		t.Errorf("expected email admin@fleet.test, got %v", user["email"])
	}
	if user["role"] != "admin" {
		t.Errorf("expected admin role, got %v", user["role"])
	}

	// Step 4: Refresh token
	body := fmt.Sprintf(`{"refresh_token":%q}`, loginRefresh)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 refreshing token, got %d: %s", rec.Code, rec.Body.String())
	}
	result = parseJSON(t, rec)
	newAccess := result["access_token"].(string)
	if newAccess == "" {
		t.Fatal("expected new access token from refresh")
	}

	// Step 5: New access token works
	rec = app.request("GET", "/api/v1/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with refreshed token, got %d", rec.Code)
	}
}

func TestAuthFlow_DuplicateRegistration(t *testing.T) {
	app := setupApp(t)

	app.registerAdmin(t, "admin@fleet.test", "password123")

	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"admin@fleet.test","password":"password456"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_WrongPassword(t *testing.T) {
	app := setupApp(t)

	app.registerAdmin(t, "admin@fleet.test", "password123")

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"admin@fleet.test","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
