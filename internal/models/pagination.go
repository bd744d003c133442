package models

// Activity listing limits
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

// ClampLimit validates a listing limit and applies defaults
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}
