package services

import (
	"context"
	"fmt"

	"card_game_server/models"
	"card_game_server/utils/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CardService implements the card collection operations on top of a CardStore
type CardService struct {
	Store CardStore
}

func NewCardService(store CardStore) *CardService {
	return &CardService{Store: store}
}

// AddCards inserts a non-empty batch in one store call and returns the
// assigned ids in input order.
func (cs *CardService) AddCards(ctx context.Context, cards []models.Card) ([]string, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: empty card list", ErrInvalidInput)
	}

	ids := make([]string, len(cards))
	for i, card := range cards {
		if card == nil {
			return nil, fmt.Errorf("%w: card %d is not an object", ErrInvalidInput, i)
		}
		card.EnsureID()
		ids[i] = card.ID()
	}

	if err := cs.Store.InsertMany(ctx, cards); err != nil {
		return nil, fmt.Errorf("failed to insert cards: %w", err)
	}

	logger.Debugf("inserted %d cards", len(cards))
	return ids, nil
}

// AddCard inserts a single card and returns its id.
func (cs *CardService) AddCard(ctx context.Context, card models.Card) (string, error) {
	if card == nil {
		return "", fmt.Errorf("%w: card is not an object", ErrInvalidInput)
	}
	card.EnsureID()

	if err := cs.Store.InsertOne(ctx, card); err != nil {
		return "", fmt.Errorf("failed to insert card: %w", err)
	}
	return card.ID(), nil
}

// GetCards returns the whole collection with string ids.
func (cs *CardService) GetCards(ctx context.Context) ([]models.Card, error) {
	cards, err := cs.Store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return stringifyIDs(cards), nil
}

// FindCards returns the cards matching ids. ErrNotFound when none match.
func (cs *CardService) FindCards(ctx context.Context, ids []string) ([]models.Card, error) {
	oids, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(oids) == 0 {
		return nil, ErrNotFound
	}

	cards, err := cs.Store.FindByIDs(ctx, oids)
	if err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNotFound
	}
	return stringifyIDs(cards), nil
}

// UpdateCards merges fields into every card in ids and returns the match count.
func (cs *CardService) UpdateCards(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(fields) == 0 {
		return 0, fmt.Errorf("%w: missing card_ids or update_fields", ErrInvalidInput)
	}
	if _, ok := fields[models.IDField]; ok {
		return 0, fmt.Errorf("%w: %s cannot be updated", ErrInvalidInput, models.IDField)
	}

	oids, err := parseIDs(ids)
	if err != nil {
		return 0, err
	}

	matched, err := cs.Store.UpdateByIDs(ctx, oids, fields)
	if err != nil {
		return 0, fmt.Errorf("failed to update cards: %w", err)
	}
	if matched == 0 {
		return 0, ErrNotFound
	}

	logger.Debugf("updated %d cards", matched)
	return matched, nil
}

// UpdateCard merges fields into a single card.
func (cs *CardService) UpdateCard(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	return cs.UpdateCards(ctx, []string{id}, fields)
}

// DeleteCards removes every card in ids and returns the delete count.
func (cs *CardService) DeleteCards(ctx context.Context, ids []string) (int64, error) {
	oids, err := parseIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(oids) == 0 {
		return 0, ErrNotFound
	}

	deleted, err := cs.Store.DeleteByIDs(ctx, oids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards: %w", err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}

	logger.Debugf("deleted %d cards", deleted)
	return deleted, nil
}

// DeleteCard removes a single card.
func (cs *CardService) DeleteCard(ctx context.Context, id string) (int64, error) {
	return cs.DeleteCards(ctx, []string{id})
}

// Ping checks that the store is reachable.
func (cs *CardService) Ping(ctx context.Context) error {
	return cs.Store.Ping(ctx)
}

// parseIDs converts wire ids to ObjectIDs, dropping duplicates so every
// backend counts each card once.
func parseIDs(ids []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		oids = append(oids, oid)
	}
	return oids, nil
}

func stringifyIDs(cards []models.Card) []models.Card {
	if cards == nil {
		return []models.Card{}
	}
	for _, card := range cards {
		card.StringifyID()
	}
	return cards
}
