package services

import (
	"context"
	"errors"

	"card_game_server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidIdentifier = errors.New("invalid card id")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("duplicate card id")
)

// CardStore is implemented by every document store backend. Implementations
// must be safe for concurrent use. Cards passed to InsertOne/InsertMany
// already carry their "_id".
type CardStore interface {
	InsertOne(ctx context.Context, card models.Card) error
	InsertMany(ctx context.Context, cards []models.Card) error
	FindAll(ctx context.Context) ([]models.Card, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Card, error)
	// UpdateByIDs sets fields on every matching card and returns the match count.
	UpdateByIDs(ctx context.Context, ids []primitive.ObjectID, fields map[string]interface{}) (int64, error)
	// DeleteByIDs returns the number of cards removed.
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
