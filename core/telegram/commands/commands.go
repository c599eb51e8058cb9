package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler and menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// OwnerOnly restricts the command to the configured owner id.
	OwnerOnly bool
	// Hidden keeps the command out of the Telegram command menu.
	Hidden bool
}
