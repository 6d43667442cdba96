package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"card_game_server/models"

	"github.com/joho/godotenv"
)

// Collections holds the configured collection names
type Collections struct {
	Cards       string
	Users       string
	Decks       string
	GameRecords string
}

// CollectionIDs holds the configured identifier field per collection
type CollectionIDs struct {
	Cards       string
	Users       string
	Decks       string
	GameRecords string
}

type Config struct {
	Port           int
	StoreBackend   string
	MongoURI       string
	DynamoDBTable  string
	AWSRegion      string
	SQLitePath     string
	S3BucketName   string
	AllowedOrigins []string
	LogLevel       string
	LogEncoding    string
	Collections    Collections
	CollectionIDs  CollectionIDs
}

const (
	DefaultPort       = 8080
	DefaultMongoURI   = "mongodb://localhost:27017/card_game"
	DefaultSQLitePath = "./data/cards.db"
)

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          DefaultPort,
		StoreBackend:  getEnv("STORE_BACKEND", models.BackendMongo),
		MongoURI:      getEnv("MONGO_URI", DefaultMongoURI),
		AWSRegion:     os.Getenv("AWS_REGION"),
		SQLitePath:    getEnv("SQLITE_PATH", DefaultSQLitePath),
		S3BucketName:  os.Getenv("S3_BUCKET_NAME"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogEncoding:   getEnv("LOG_ENCODING", "json"),
		Collections: Collections{
			Cards:       getEnv("CARDS_COLLECTION", models.CardsCollection),
			Users:       getEnv("USERS_COLLECTION", models.UsersCollection),
			Decks:       getEnv("DECKS_COLLECTION", models.DecksCollection),
			GameRecords: getEnv("GAME_RECORDS_COLLECTION", models.GameRecordsCollection),
		},
		CollectionIDs: CollectionIDs{
			Cards:       getEnv("CARD_ID_FIELD", models.CardIDField),
			Users:       getEnv("USER_ID_FIELD", models.UserIDField),
			Decks:       getEnv("DECK_ID_FIELD", models.DeckIDField),
			GameRecords: getEnv("GAME_RECORD_ID_FIELD", models.GameRecordIDField),
		},
	}
	cfg.DynamoDBTable = getEnv("DYNAMODB_TABLE", cfg.Collections.Cards)
	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT env variable %q", portStr)
		}
		cfg.Port = port
	}

	switch cfg.StoreBackend {
	case models.BackendMongo, models.BackendDynamoDB, models.BackendSQLite, models.BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.Collections.Cards == "" {
		return Config{}, errors.New("CARDS_COLLECTION must not be empty")
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
