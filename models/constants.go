package models

// Default collection names. Only the cards collection is served over HTTP.
const (
	CardsCollection       = "cards"
	UsersCollection       = "users"
	DecksCollection       = "decks"
	GameRecordsCollection = "game_records"
)

// Identifier field names for each collection
const (
	CardIDField       = "card_id"
	UserIDField       = "user_id"
	DeckIDField       = "deck_id"
	GameRecordIDField = "record_id"
)

// Store backends
const (
	BackendMongo    = "mongo"
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// CardImagePrefix is the S3 key prefix for uploaded card art.
const CardImagePrefix = "card-images/"
