package redis

import (
	"fmt"
	"strings"
)

// Deterministic key patterns. These are the blob store's only schema; bump
// the prefix to reset storage intentionally.
const keyPrefix = "stcd:v2"

func stateKey(symbol string) string {
	return fmt.Sprintf("%s:state:%s", keyPrefix, strings.ToUpper(symbol))
}

func msgsKey(symbol, date string) string {
	return fmt.Sprintf("%s:msgs:%s:%s", keyPrefix, strings.ToUpper(symbol), date)
}

func seriesKey(symbol string) string {
	return fmt.Sprintf("%s:series:%s", keyPrefix, strings.ToUpper(symbol))
}

func hashKey(hash string) string {
	return fmt.Sprintf("%s:hash:%s", keyPrefix, hash)
}

func lockKey(symbol string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, strings.ToUpper(symbol))
}
