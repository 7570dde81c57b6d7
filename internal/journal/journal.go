// Package journal records settled trades in an embedded SQLite database so
// history and volume can be queried without holding references to live
// entities. The default database lives in memory; nothing touches disk
// unless a path is given.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/econ-engine/internal/economy"
)

// DB wraps a SQLite connection holding the trade journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a journal at the given path. Use OpenInMemory for
// the default non-durable journal.
func Open(path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a journal that lives only for the process lifetime.
func OpenInMemory() (*DB, error) {
	return Open(":memory:")
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		buyer_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		item TEXT NOT NULL,
		amount INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		total REAL NOT NULL,
		traded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_buyer ON trades(buyer_id);
	CREATE INDEX IF NOT EXISTS idx_trades_seller ON trades(seller_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type tradeRow struct {
	ID        string  `db:"id"`
	BuyerID   string  `db:"buyer_id"`
	SellerID  string  `db:"seller_id"`
	Item      string  `db:"item"`
	Amount    int     `db:"amount"`
	UnitPrice float64 `db:"unit_price"`
	Total     float64 `db:"total"`
	TradedAt  string  `db:"traded_at"`
}

func (r tradeRow) trade() (economy.Trade, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return economy.Trade{}, fmt.Errorf("parse trade id %q: %w", r.ID, err)
	}
	when, err := time.Parse(time.RFC3339Nano, r.TradedAt)
	if err != nil {
		return economy.Trade{}, fmt.Errorf("parse trade time %q: %w", r.TradedAt, err)
	}
	return economy.Trade{
		ID:        id,
		BuyerID:   r.BuyerID,
		SellerID:  r.SellerID,
		Item:      r.Item,
		Amount:    r.Amount,
		UnitPrice: r.UnitPrice,
		Total:     r.Total,
		When:      when,
	}, nil
}

// Record appends one settled trade to the journal.
func (db *DB) Record(t economy.Trade) error {
	_, err := db.conn.Exec(
		`INSERT INTO trades (id, buyer_id, seller_id, item, amount, unit_price, total, traded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.BuyerID, t.SellerID, t.Item, t.Amount, t.UnitPrice, t.Total,
		t.When.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record trade %s: %w", t.ID, err)
	}
	return nil
}

// Trades returns every recorded trade in insertion order.
func (db *DB) Trades() ([]economy.Trade, error) {
	return db.selectTrades(`SELECT * FROM trades ORDER BY rowid`)
}

// TradesFor returns every trade the entity took part in, on either side.
func (db *DB) TradesFor(entityID string) ([]economy.Trade, error) {
	return db.selectTrades(
		`SELECT * FROM trades WHERE buyer_id = ? OR seller_id = ? ORDER BY rowid`,
		entityID, entityID,
	)
}

func (db *DB) selectTrades(query string, args ...any) ([]economy.Trade, error) {
	var rows []tradeRow
	if err := db.conn.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	trades := make([]economy.Trade, 0, len(rows))
	for _, r := range rows {
		t, err := r.trade()
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// TotalVolume returns the summed money moved across all recorded trades.
func (db *DB) TotalVolume() (float64, error) {
	var total float64
	err := db.conn.Get(&total, `SELECT COALESCE(SUM(total), 0) FROM trades`)
	if err != nil {
		return 0, fmt.Errorf("sum trade volume: %w", err)
	}
	return total, nil
}
