package auth

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/models"
)

func setup(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.APIKey{})

	cfg := &config.Config{JWTSecret: "test-secret", AdminEmail: "admin@example.com"}
	return NewAuthHandler(cfg, db), db
}

func register(t *testing.T, handler *AuthHandler, email, password string) uint {
	t.Helper()
	req := RegisterRequest{}
	req.Body.Email = email
	req.Body.Password = password
	resp, err := handler.HandleRegister(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}
	return resp.Body.ID
}

func login(t *testing.T, handler *AuthHandler, email, password string) string {
	t.Helper()
	req := LoginRequest{}
	req.Body.Email = email
	req.Body.Password = password
	resp, err := handler.HandleLogin(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleLogin returned error: %v", err)
	}
	if resp.SetCookie == "" {
		t.Fatal("expected Set-Cookie header")
	}
	return "auth_token=" + resp.Body.Token
}

func TestRegisterLoginMe(t *testing.T) {
	handler, _ := setup(t)

	register(t, handler, "Alice@Example.com", "password123")
	cookie := login(t, handler, "alice@example.com", "password123")

	me, err := handler.HandleMe(context.Background(), &MeRequest{AuthInput{Cookie: cookie}})
	if err != nil {
		t.Fatalf("HandleMe returned error: %v", err)
	}
	if me.Body.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", me.Body.Email)
	}
	if me.Body.Admin {
		t.Error("regular account must not be admin")
	}
}

func TestRegisterValidation(t *testing.T) {
	handler, _ := setup(t)

	req := RegisterRequest{}
	req.Body.Email = "not-an-email"
	req.Body.Password = "password123"
	if _, err := handler.HandleRegister(context.Background(), &req); err == nil {
		t.Error("expected error for invalid email")
	}

	req.Body.Email = "alice@example.com"
	req.Body.Password = "short"
	if _, err := handler.HandleRegister(context.Background(), &req); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler, _ := setup(t)

	register(t, handler, "alice@example.com", "password123")

	req := RegisterRequest{}
	req.Body.Email = "alice@example.com"
	req.Body.Password = "password456"
	if _, err := handler.HandleRegister(context.Background(), &req); err == nil {
		t.Error("expected conflict for duplicate email")
	}
}

func TestRegisterAdminEmail(t *testing.T) {
	handler, db := setup(t)

	id := register(t, handler, "admin@example.com", "password123")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if !user.Admin {
		t.Error("configured admin email must create an admin account")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler, _ := setup(t)

	register(t, handler, "alice@example.com", "password123")

	req := LoginRequest{}
	req.Body.Email = "alice@example.com"
	req.Body.Password = "wrong-password"
	if _, err := handler.HandleLogin(context.Background(), &req); err == nil {
		t.Error("expected error for wrong password")
	}

	req.Body.Email = "nobody@example.com"
	req.Body.Password = "password123"
	if _, err := handler.HandleLogin(context.Background(), &req); err == nil {
		t.Error("expected error for unknown account")
	}
}

func TestAuthorize(t *testing.T) {
	handler, _ := setup(t)
	ctx := context.Background()

	id := register(t, handler, "alice@example.com", "password123")
	cookie := login(t, handler, "alice@example.com", "password123")

	userID, err := handler.Authorize(ctx, AuthInput{Cookie: cookie})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if userID != id {
		t.Errorf("expected user %d, got %d", id, userID)
	}

	if _, err := handler.Authorize(ctx, AuthInput{}); err == nil {
		t.Error("expected error without credentials")
	}
	if _, err := handler.Authorize(ctx, AuthInput{Cookie: "auth_token=garbage"}); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestAuthorizeAPIKey(t *testing.T) {
	handler, db := setup(t)
	ctx := context.Background()

	id := register(t, handler, "alice@example.com", "password123")

	key := models.APIKey{UserID: id, Key: "valid-key", Name: "ci"}
	db.Create(&key)

	userID, err := handler.Authorize(ctx, AuthInput{APIKey: "valid-key"})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if userID != id {
		t.Errorf("expected user %d, got %d", id, userID)
	}

	var used models.APIKey
	db.First(&used, key.ID)
	if used.LastUsedAt == nil {
		t.Error("expected last_used_at to be stamped")
	}

	if _, err := handler.Authorize(ctx, AuthInput{APIKey: "bogus"}); err == nil {
		t.Error("expected error for unknown key")
	}

	expired := time.Now().Add(-time.Hour)
	db.Create(&models.APIKey{UserID: id, Key: "expired-key", Name: "old", ExpiresAt: &expired})
	if _, err := handler.Authorize(ctx, AuthInput{APIKey: "expired-key"}); err == nil {
		t.Error("expected error for expired key")
	}
}

func TestRequireAdmin(t *testing.T) {
	handler, _ := setup(t)
	ctx := context.Background()

	register(t, handler, "alice@example.com", "password123")
	register(t, handler, "admin@example.com", "password123")

	userCookie := login(t, handler, "alice@example.com", "password123")
	adminCookie := login(t, handler, "admin@example.com", "password123")

	if _, err := handler.RequireAdmin(ctx, AuthInput{Cookie: userCookie}); err == nil {
		t.Error("expected error for non-admin")
	}
	if _, err := handler.RequireAdmin(ctx, AuthInput{Cookie: adminCookie}); err != nil {
		t.Errorf("RequireAdmin returned error for admin: %v", err)
	}
}
