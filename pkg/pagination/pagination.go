package pagination

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 50

// MaxLimit caps how many rows any listing can request.
const MaxLimit = 200

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
