package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DenominationCount maps a denomination face value (as a decimal string,
// e.g. "0.50", "20") to the number of notes or coins counted.
type DenominationCount map[string]int

// Value implements driver.Valuer, serializing the map as JSON for the
// jsonb column.
func (d DenominationCount) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DenominationCount) Scan(value any) error {
	if value == nil {
		*d = DenominationCount{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported denominations type %T", value)
	}
}

// Total sums the counted cash across all denominations. Unparseable face
// values are reported as an error rather than silently skipped.
func (d DenominationCount) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for face, count := range d {
		value, err := decimal.NewFromString(face)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid denomination %q: %w", face, err)
		}
		if count < 0 {
			return decimal.Zero, fmt.Errorf("negative count for denomination %q", face)
		}
		total = total.Add(value.Mul(decimal.NewFromInt(int64(count))))
	}
	return total, nil
}
