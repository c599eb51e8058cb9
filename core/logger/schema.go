package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

// Enumerated fields; values outside these sets are dropped (cache, outcome)
// or passed through unchanged (status).
var (
	allowedStatus  = set("ok", "fail", "skip", "retry", "rate_limited", "ignored")
	allowedCache   = set("hit", "miss", "expired")
	allowedOutcome = set("ok", "fail", "no_result", "rate_limited", "ignored")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeEnum(value string, allowed map[string]struct{}) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	_, ok := allowed[value]
	return value, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"cb_key",
	"state",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"device",
	"category",
	"page",
	"cache",
	"search_id",
	"http_code",
	"payload",
	"username",
	"mode",
	"listen",
	"db",
	"driver",
	"err",
	"err_code",
	"attempts",
}
