package store

import (
	"context"
	"testing"

	"github.com/ananev/boutique/internal/db"
)

func TestSettingsUpsert(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetSetting(ctx, database, "store_name", "Boutique Elegance"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "store_name", "Elegance"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	settings, err := GetSettings(ctx, database)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings["store_name"] != "Elegance" {
		t.Errorf("expected overwritten value, got %q", settings["store_name"])
	}
}

func TestSettingsHideJWTSecret(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := GetJWTSecret(ctx, database); err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}

	settings, _ := GetSettings(ctx, database)
	if _, ok := settings["jwt_secret"]; ok {
		t.Error("expected jwt_secret to be hidden from settings listing")
	}

	if err := SetSetting(ctx, database, "jwt_secret", "attacker"); err == nil {
		t.Error("expected SetSetting to refuse the jwt_secret key")
	}
}

func TestJWTSecretPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated secret")
	}

	second, _ := GetJWTSecret(ctx, database)
	if second != first {
		t.Error("expected the same secret on repeated reads")
	}
}
