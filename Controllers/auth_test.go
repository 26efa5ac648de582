package Controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"Mehfil/Models"
)

func newAuthApp(t *testing.T) (*fiber.App, *AuthController) {
	t.Helper()
	db := setupTestDB(t)
	auth := NewAuthController(db)
	app := fiber.New()
	app.Post("/api/login", auth.Login)
	app.Post("/api/logout", auth.Logout)
	app.Post("/api/register", auth.Register)
	return app, auth
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app, auth := newAuthApp(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	user := Models.User{Username: "manager", Password: hash, Permission: 3}
	if err := auth.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp, _ := doJSON(t, app, "POST", "/api/login", map[string]interface{}{
		"username": "manager",
		"password": "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a jwt cookie on successful login")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, auth := newAuthApp(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	user := Models.User{Username: "manager", Password: hash, Permission: 3}
	if err := auth.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp, _ := doJSON(t, app, "POST", "/api/login", map[string]interface{}{
		"username": "manager",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	app, auth := newAuthApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/register", map[string]interface{}{
		"username":   "accounts",
		"password":   "ledger-pass",
		"permission": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var user Models.User
	if err := auth.DB.Where("username = ?", "accounts").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte("ledger-pass")); err != nil {
		t.Fatal("stored password must be a bcrypt hash of the input")
	}
}
