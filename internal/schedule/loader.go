package schedule

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/logger"
	"frizo/risk_engine/pkg/utils"
)

const dateLayout = "20060102"

// Load reads a margin schedule file of "yyyyMMdd,initial,maintenance"
// rows. A missing or unreadable file yields an empty table: new or
// unmapped contracts simply have no published schedule yet. Rows that
// fail to parse are skipped.
func Load(path string) *Table {
	log := logger.Default().WithComponent("schedule")

	if !utils.FileExists(path) {
		log.Debug("no margin schedule file", "path", path)
		return &Table{}
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("margin schedule unreadable", "path", path, "error", err)
		return &Table{}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Warn("margin schedule malformed", "path", path, "error", err)
		return &Table{}
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry, ok := parseEntry(record)
		if !ok {
			log.Debug("skipping margin schedule row", "path", path, "row", strings.Join(record, ","))
			continue
		}
		entries = append(entries, entry)
	}

	table, err := NewTable(entries)
	if err != nil {
		log.Warn("margin schedule rejected", "path", path, "error", err)
		return &Table{}
	}
	return table
}

// FilePath returns the schedule location for a contract under the data
// directory: <dataDir>/futures/<market>/margins/<symbol>.csv
func FilePath(dataDir, market, symbol string) string {
	return filepath.Join(dataDir, "futures", strings.ToLower(market), "margins",
		strings.ToLower(symbol)+".csv")
}

func parseEntry(record []string) (Entry, bool) {
	if len(record) < 3 {
		return Entry{}, false
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		// header rows land here too
		return Entry{}, false
	}
	initial, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return Entry{}, false
	}
	maintenance, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return Entry{}, false
	}

	return Entry{Date: date, Initial: initial, Maintenance: maintenance}, true
}
