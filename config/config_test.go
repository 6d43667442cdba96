package config

import (
	"reflect"
	"testing"

	"card_game_server/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "MONGO_URI", "DYNAMODB_TABLE", "AWS_REGION",
		"SQLITE_PATH", "S3_BUCKET_NAME", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
		"LOG_ENCODING", "CARDS_COLLECTION", "USERS_COLLECTION", "DECKS_COLLECTION",
		"GAME_RECORDS_COLLECTION", "CARD_ID_FIELD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.StoreBackend != models.BackendMongo {
		t.Errorf("Expected mongo backend, got %s", cfg.StoreBackend)
	}
	if cfg.MongoURI != DefaultMongoURI {
		t.Errorf("Expected default Mongo URI, got %s", cfg.MongoURI)
	}
	if cfg.Collections.Cards != "cards" || cfg.Collections.GameRecords != "game_records" {
		t.Errorf("Unexpected collections: %+v", cfg.Collections)
	}
	if cfg.CollectionIDs.Cards != "card_id" {
		t.Errorf("Expected card_id, got %s", cfg.CollectionIDs.Cards)
	}
	if cfg.DynamoDBTable != "cards" {
		t.Errorf("Expected Dynamo table to follow cards collection, got %s", cfg.DynamoDBTable)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("Expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Addr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("CARDS_COLLECTION", "cards_v2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://cards.example.com")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Expected port 5000, got %d", cfg.Port)
	}
	if cfg.StoreBackend != models.BackendSQLite {
		t.Errorf("Expected sqlite, got %s", cfg.StoreBackend)
	}
	if cfg.DynamoDBTable != "cards_v2" {
		t.Errorf("Expected cards_v2 table, got %s", cfg.DynamoDBTable)
	}
	want := []string{"http://localhost:3000", "https://cards.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("Expected %v, got %v", want, cfg.AllowedOrigins)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric port", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"unknown backend", "STORE_BACKEND", "cassandra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := FromEnv(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
