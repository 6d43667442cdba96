package services

import (
	"context"
	"fmt"
	"sync"

	"card_game_server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryService keeps cards in process memory, in insertion order.
type MemoryService struct {
	mu    sync.RWMutex
	cards map[string]models.Card
	order []string
}

func NewMemoryService() *MemoryService {
	return &MemoryService{cards: map[string]models.Card{}}
}

func (ms *MemoryService) InsertOne(ctx context.Context, card models.Card) error {
	return ms.InsertMany(ctx, []models.Card{card})
}

// InsertMany stores all cards or none of them.
func (ms *MemoryService) InsertMany(_ context.Context, cards []models.Card) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	batch := make(map[string]struct{}, len(cards))
	for _, card := range cards {
		key := card.ID()
		_, inBatch := batch[key]
		if _, exists := ms.cards[key]; exists || inBatch {
			return fmt.Errorf("%w: %s", ErrDuplicateID, key)
		}
		batch[key] = struct{}{}
	}

	for _, card := range cards {
		key := card.ID()
		ms.cards[key] = card.Clone()
		ms.order = append(ms.order, key)
	}
	return nil
}

func (ms *MemoryService) FindAll(_ context.Context) ([]models.Card, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]models.Card, 0, len(ms.order))
	for _, key := range ms.order {
		out = append(out, ms.cards[key].Clone())
	}
	return out, nil
}

func (ms *MemoryService) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Card, error) {
	wanted := hexSet(ids)

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := []models.Card{}
	for _, key := range ms.order {
		if _, ok := wanted[key]; ok {
			out = append(out, ms.cards[key].Clone())
		}
	}
	return out, nil
}

func (ms *MemoryService) UpdateByIDs(_ context.Context, ids []primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var matched int64
	for key := range hexSet(ids) {
		card, ok := ms.cards[key]
		if !ok {
			continue
		}
		updated := card.Clone()
		for k, v := range fields {
			updated[k] = v
		}
		ms.cards[key] = updated
		matched++
	}
	return matched, nil
}

func (ms *MemoryService) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for key := range hexSet(ids) {
		if _, ok := ms.cards[key]; ok {
			delete(ms.cards, key)
			deleted++
		}
	}
	if deleted > 0 {
		kept := ms.order[:0]
		for _, key := range ms.order {
			if _, ok := ms.cards[key]; ok {
				kept = append(kept, key)
			}
		}
		ms.order = kept
	}
	return deleted, nil
}

func (ms *MemoryService) Ping(context.Context) error { return nil }

func (ms *MemoryService) Close(context.Context) error { return nil }

func hexSet(ids []primitive.ObjectID) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id.Hex()] = struct{}{}
	}
	return set
}
