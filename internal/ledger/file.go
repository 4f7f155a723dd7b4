// Package ledger holds the in-memory stock ledger and its file-backed
// persistence.
package ledger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"stock_go/internal/domain"

	"github.com/shopspring/decimal"
)

// Load reads the ledger document. A missing file, malformed JSON or an
// unexpected shape never fails the process: the result is an empty ledger.
// Legacy documents written as a {name: price} object are migrated to the
// canonical array shape with zeroed records.
func Load(path string) []domain.Stock {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Ledger file unreadable, starting empty", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	}

	var stocks []domain.Stock
	if err := json.Unmarshal(data, &stocks); err == nil {
		for i := range stocks {
			stocks[i].Repair()
		}
		return stocks
	}

	// Legacy shape: object keyed by name to price.
	var legacy map[string]json.RawMessage
	if err := json.Unmarshal(data, &legacy); err == nil {
		migrated := make([]domain.Stock, 0, len(legacy))
		for name, rawPrice := range legacy {
			st := domain.NewStock(name)
			var price float64
			if err := json.Unmarshal(rawPrice, &price); err == nil {
				st.Price = decimal.NewFromFloat(price)
			}
			migrated = append(migrated, *st)
		}
		slog.Info("Migrated legacy ledger document", slog.String("path", path), slog.Int("stocks", len(migrated)))
		return migrated
	}

	slog.Warn("Ledger file malformed, starting empty", slog.String("path", path))
	return nil
}

// Save serializes the full ledger and overwrites the document synchronously.
// The document is compact, not pretty-printed.
func Save(path string, stocks []domain.Stock) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if stocks == nil {
		stocks = []domain.Stock{}
	}
	data, err := json.Marshal(stocks)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
