package sqlite

import (
	"fmt"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// GetPrices returns the price table; empty when prices were never set.
func (s *SQLite) GetPrices() (types.PriceTable, error) {
	rows, err := s.Db.Query("SELECT level, price FROM prices")
	if err != nil {
		return nil, fmt.Errorf("GetPrices: query: %w", err)
	}
	defer rows.Close()

	prices := make(types.PriceTable)
	for rows.Next() {
		var (
			level int
			price float64
		)
		if err := rows.Scan(&level, &price); err != nil {
			return nil, fmt.Errorf("GetPrices: scan row: %w", err)
		}
		prices[level] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPrices: rows iteration: %w", err)
	}

	return prices, nil
}

// ReplacePrices deletes the whole table and inserts prices in one
// transaction. Nothing from the previous table survives.
func (s *SQLite) ReplacePrices(prices types.PriceTable) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("ReplacePrices: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM prices"); err != nil {
		return fmt.Errorf("ReplacePrices: clear: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO prices (level, price) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("ReplacePrices: prepare: %w", err)
	}
	defer stmt.Close()

	for level, price := range prices {
		if _, err = stmt.Exec(level, price); err != nil {
			return fmt.Errorf("ReplacePrices: insert level %d: %w", level, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ReplacePrices: commit: %w", err)
	}
	return nil
}
