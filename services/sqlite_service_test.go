package services

import (
	"context"
	"path/filepath"
	"testing"

	"card_game_server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func openTestSQLite(t *testing.T) *SQLiteService {
	t.Helper()
	ss, err := OpenSQLite(":memory:", "cards")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { ss.Close(context.Background()) })
	return ss
}

func newCard(fields models.Card) models.Card {
	fields.EnsureID()
	return fields
}

func TestOpenSQLiteRejectsBadTableName(t *testing.T) {
	if _, err := OpenSQLite(":memory:", "cards; DROP TABLE x"); err == nil {
		t.Error("Expected error for invalid table name")
	}
}

func TestOpenSQLiteCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cards.db")
	ss, err := OpenSQLite(path, "cards")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer ss.Close(context.Background())

	if err := ss.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ss := openTestSQLite(t)
	ctx := context.Background()

	dragon := newCard(models.Card{
		"name":  "Dragon",
		"cost":  int64(5),
		"power": 2.5,
		"stats": map[string]interface{}{"atk": int64(3)},
		"tags":  []interface{}{"fire", "flying"},
	})
	goblin := newCard(models.Card{"name": "Goblin"})

	if err := ss.InsertMany(ctx, []models.Card{dragon, goblin}); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	all, err := ss.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 2 || all[0]["name"] != "Dragon" || all[1]["name"] != "Goblin" {
		t.Fatalf("Expected insertion order, got %+v", all)
	}

	got := all[0]
	if got.ID() != dragon.ID() {
		t.Errorf("Expected id %s, got %s", dragon.ID(), got.ID())
	}
	if got["cost"] != int64(5) {
		t.Errorf("Expected cost int64(5), got %#v", got["cost"])
	}
	if got["power"] != 2.5 {
		t.Errorf("Expected power 2.5, got %#v", got["power"])
	}
	stats, ok := got["stats"].(map[string]interface{})
	if !ok || stats["atk"] != int64(3) {
		t.Errorf("Expected nested stats, got %#v", got["stats"])
	}
}

func TestSQLiteInsertManyIsAtomic(t *testing.T) {
	ss := openTestSQLite(t)
	ctx := context.Background()

	existing := newCard(models.Card{"name": "Dragon"})
	if err := ss.InsertOne(ctx, existing); err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}

	batch := []models.Card{newCard(models.Card{"name": "Goblin"}), existing}
	if err := ss.InsertMany(ctx, batch); err == nil {
		t.Fatal("Expected duplicate id error")
	}

	all, _ := ss.FindAll(ctx)
	if len(all) != 1 {
		t.Errorf("Expected failed batch to insert nothing, got %d cards", len(all))
	}
}

func TestSQLiteUpdateAndDelete(t *testing.T) {
	ss := openTestSQLite(t)
	ctx := context.Background()

	a := newCard(models.Card{"name": "Dragon", "cost": int64(5)})
	b := newCard(models.Card{"name": "Goblin", "cost": int64(1)})
	if err := ss.InsertMany(ctx, []models.Card{a, b}); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	aID, _ := primitive.ObjectIDFromHex(a.ID())
	bID, _ := primitive.ObjectIDFromHex(b.ID())
	missing := primitive.NewObjectID()

	matched, err := ss.UpdateByIDs(ctx, []primitive.ObjectID{aID, missing}, map[string]interface{}{"cost": int64(7)})
	if err != nil {
		t.Fatalf("UpdateByIDs failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("Expected 1 matched, got %d", matched)
	}

	found, err := ss.FindByIDs(ctx, []primitive.ObjectID{aID, bID})
	if err != nil {
		t.Fatalf("FindByIDs failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(found))
	}
	if found[0]["cost"] != int64(7) || found[0]["name"] != "Dragon" {
		t.Errorf("Expected merged Dragon, got %+v", found[0])
	}
	if found[1]["cost"] != int64(1) {
		t.Errorf("Expected Goblin untouched, got %+v", found[1])
	}

	deleted, err := ss.DeleteByIDs(ctx, []primitive.ObjectID{bID, missing})
	if err != nil {
		t.Fatalf("DeleteByIDs failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted, got %d", deleted)
	}

	found, _ = ss.FindByIDs(ctx, []primitive.ObjectID{bID})
	if len(found) != 0 {
		t.Errorf("Expected deleted card to be gone, got %+v", found)
	}
}
