package redisx

import "fmt"

const ns = "cinebook:v1"

func KeySessionSummary(sessionID int64) string {
	return fmt.Sprintf("%s:session:%d:summary", ns, sessionID)
}

func KeySessionAvailability(sessionID int64) string {
	return fmt.Sprintf("%s:session:%d:availability", ns, sessionID)
}

func KeySessionSeatMap(sessionID int64) string {
	return fmt.Sprintf("%s:session:%d:seatmap", ns, sessionID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

// KeyIdempotency scopes a client supplied Idempotency-Key to one route and
// resource so the same key can be reused across endpoints.
func KeyIdempotency(scope string, resourceID int64, key string) string {
	return fmt.Sprintf("%s:idem:%s:%d:%s", ns, scope, resourceID, key)
}

func ChannelSessionsChanged() string {
	return ns + ":sessions:changed"
}
