package services

import (
	"context"
	"fmt"

	"card_game_server/models"
	"card_game_server/utils/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultDatabase is used when the Mongo URI names no database
const DefaultDatabase = "card_game"

type MongoService struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// DatabaseFromURI returns the database named in a Mongo connection string.
func DatabaseFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid Mongo URI: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// InitializeMongoService connects to MongoDB and binds the cards collection.
func InitializeMongoService(ctx context.Context, uri, collection string) (*MongoService, error) {
	dbName, err := DatabaseFromURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	logger.Infof("Using MongoDB database '%s', collection '%s'", dbName, collection)
	return &MongoService{
		Client:     client,
		Collection: client.Database(dbName).Collection(collection),
	}, nil
}

func (ms *MongoService) InsertOne(ctx context.Context, card models.Card) error {
	if _, err := ms.Collection.InsertOne(ctx, card); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, card.ID())
		}
		return fmt.Errorf("failed to insert into '%s': %w", ms.Collection.Name(), err)
	}
	return nil
}

func (ms *MongoService) InsertMany(ctx context.Context, cards []models.Card) error {
	docs := make([]interface{}, len(cards))
	for i, card := range cards {
		docs[i] = card
	}
	if _, err := ms.Collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateID, err)
		}
		return fmt.Errorf("failed to insert %d cards into '%s': %w", len(cards), ms.Collection.Name(), err)
	}
	return nil
}

func (ms *MongoService) FindAll(ctx context.Context) ([]models.Card, error) {
	return ms.find(ctx, bson.M{})
}

func (ms *MongoService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Card, error) {
	return ms.find(ctx, idFilter(ids))
}

func (ms *MongoService) UpdateByIDs(ctx context.Context, ids []primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	result, err := ms.Collection.UpdateMany(ctx, idFilter(ids), bson.M{"$set": fields})
	if err != nil {
		return 0, fmt.Errorf("failed to update cards in '%s': %w", ms.Collection.Name(), err)
	}
	return result.MatchedCount, nil
}

func (ms *MongoService) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	result, err := ms.Collection.DeleteMany(ctx, idFilter(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards from '%s': %w", ms.Collection.Name(), err)
	}
	return result.DeletedCount, nil
}

func (ms *MongoService) Ping(ctx context.Context) error {
	return ms.Client.Ping(ctx, readpref.Primary())
}

func (ms *MongoService) Close(ctx context.Context) error {
	return ms.Client.Disconnect(ctx)
}

func (ms *MongoService) find(ctx context.Context, filter bson.M) ([]models.Card, error) {
	cursor, err := ms.Collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query '%s': %w", ms.Collection.Name(), err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	cards := make([]models.Card, len(docs))
	for i, doc := range docs {
		cards[i] = models.Card(doc)
	}
	return cards, nil
}

func idFilter(ids []primitive.ObjectID) bson.M {
	return bson.M{models.IDField: bson.M{"$in": ids}}
}
