// Package callbacks handles telebot's "\f<unique>|<payload>" callback data convention.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

const (
	// Prefix marks callback data produced for a unique endpoint.
	Prefix = "\f"
	// Sep separates the unique key and payload fields.
	Sep = "|"
)

// Join encodes unique and fields into raw callback data.
func Join(unique string, fields ...string) string {
	if len(fields) == 0 {
		return Prefix + unique
	}
	return Prefix + unique + Sep + strings.Join(fields, Sep)
}

// Split decodes raw callback data into the unique key and payload fields.
// Data without the prefix is accepted as-is.
func Split(data string) (string, []string) {
	raw := strings.TrimPrefix(data, Prefix)
	parts := strings.Split(raw, Sep)
	return parts[0], parts[1:]
}

// Raw restores the full callback data. telebot strips the prefix and unique
// key when a matching "\f<unique>" endpoint is registered.
func Raw(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	if cb.Unique == "" {
		return cb.Data
	}
	if cb.Data == "" {
		return Join(cb.Unique)
	}
	return Prefix + cb.Unique + Sep + cb.Data
}

// Parse returns unique key and the payload after the first separator.
func Parse(cb *tele.Callback) (string, string) {
	raw := strings.TrimPrefix(Raw(cb), Prefix)
	unique, payload, _ := strings.Cut(raw, Sep)
	return strings.TrimSpace(unique), payload
}

// Key returns the unique key of the current callback.
func Key(c tele.Context) string {
	k, _ := Parse(c.Callback())
	return k
}
