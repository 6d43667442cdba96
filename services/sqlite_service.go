package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"card_game_server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteService stores each card as a JSON document in a single table.
type SQLiteService struct {
	DB    *sql.DB
	Table string
}

// OpenSQLite opens (or creates) the database at path and ensures the card table exists.
func OpenSQLite(path, table string) (*SQLiteService, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers and keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}

	ss := &SQLiteService{DB: db, Table: table}
	if err := ss.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return ss, nil
}

func (ss *SQLiteService) migrate() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`, ss.Table)
	if _, err := ss.DB.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", ss.Table, err)
	}
	return nil
}

func (ss *SQLiteService) InsertOne(ctx context.Context, card models.Card) error {
	return ss.InsertMany(ctx, []models.Card{card})
}

// InsertMany inserts the batch in one transaction.
func (ss *SQLiteService) InsertMany(ctx context.Context, cards []models.Card) error {
	tx, err := ss.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt := fmt.Sprintf(`INSERT INTO %s (id, doc, created_at) VALUES (?, ?, ?)`, ss.Table)
	for _, card := range cards {
		doc, err := encodeCard(card)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, card.ID(), doc, now); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("%w: %s", ErrDuplicateID, card.ID())
			}
			return fmt.Errorf("failed to insert card %s: %w", card.ID(), err)
		}
	}
	return tx.Commit()
}

func (ss *SQLiteService) FindAll(ctx context.Context) ([]models.Card, error) {
	rows, err := ss.DB.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY rowid`, ss.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func (ss *SQLiteService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Card, error) {
	if len(ids) == 0 {
		return []models.Card{}, nil
	}
	in, args := inClause(ids)
	rows, err := ss.DB.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id IN (%s) ORDER BY rowid`, ss.Table, in), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

// UpdateByIDs merges fields into each matching document inside one transaction.
func (ss *SQLiteService) UpdateByIDs(ctx context.Context, ids []primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := ss.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	in, args := inClause(ids)
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id IN (%s)`, ss.Table, in), args...)
	if err != nil {
		return 0, err
	}
	cards, err := scanCards(rows)
	rows.Close()
	if err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, ss.Table)
	for _, card := range cards {
		for k, v := range fields {
			card[k] = v
		}
		doc, err := encodeCard(card)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, stmt, doc, card.ID()); err != nil {
			return 0, fmt.Errorf("failed to update card %s: %w", card.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(cards)), nil
}

func (ss *SQLiteService) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	res, err := ss.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, ss.Table, in), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (ss *SQLiteService) Ping(ctx context.Context) error {
	return ss.DB.PingContext(ctx)
}

func (ss *SQLiteService) Close(context.Context) error {
	return ss.DB.Close()
}

// encodeCard serializes a card with its id in string form.
func encodeCard(card models.Card) (string, error) {
	doc := card.Clone()
	doc[models.IDField] = card.ID()
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode card %s: %w", card.ID(), err)
	}
	return string(b), nil
}

func decodeCard(doc string) (models.Card, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(doc)))
	decoder.UseNumber()

	var card models.Card
	if err := decoder.Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode stored card: %w", err)
	}
	models.NormalizeNumbers(card)
	return card, nil
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	cards := []models.Card{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		card, err := decodeCard(doc)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func inClause(ids []primitive.ObjectID) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.Hex()
	}
	return strings.Join(placeholders, ", "), args
}
