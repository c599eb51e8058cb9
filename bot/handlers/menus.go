package handlers

import (
	"fmt"
	"strings"

	"github.com/m3rciful/wallbot/bot/action"
	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/bot/pexels"
	"github.com/m3rciful/wallbot/bot/usage"
	"github.com/m3rciful/wallbot/core/telegram/format"
	"github.com/m3rciful/wallbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const (
	labelPhone     = "📱 Phone"
	labelLaptop    = "🖥 Laptop"
	labelDeveloper = "👨‍💻 Developer"
	labelAdmin     = "👑 Admin panel"
	labelBack      = "🔙 Back"
	labelNext      = "🔄 Another one"
	labelOriginal  = "💎 4K"

	textChooseCategory = "Choose a category:"

	gridColumns = 2
)

func welcomeText(firstName string) string {
	if firstName == "" {
		return "Welcome ✨\nChoose your device:"
	}
	return fmt.Sprintf("Welcome, %s ✨\nChoose your device:", firstName)
}

// DeviceMenu builds the start menu. The admin row is shown to the owner only.
func DeviceMenu(developerURL string, owner bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{
			{Text: labelPhone, Data: action.Device(catalog.Mobile).Encode()},
			{Text: labelLaptop, Data: action.Device(catalog.Laptop).Encode()},
		},
		{{Text: labelDeveloper, URL: developerURL}},
	}
	if owner {
		rows = append(rows, []keyboard.InlineBtn{{Text: labelAdmin, Data: action.Admin().Encode()}})
	}
	return keyboard.InlineButtonsRows(rows...)
}

// CategoryGrid lists the catalog two per row in catalog order, each opening
// page one for d, followed by a back row.
func CategoryGrid(cat *catalog.Catalog, d catalog.Device) *tele.ReplyMarkup {
	entries := cat.Entries()
	btns := make([]keyboard.InlineBtn, 0, len(entries))
	for _, e := range entries {
		btns = append(btns, keyboard.InlineBtn{
			Text: e.Label,
			Data: action.Fetch(d, e.Term, 1).Encode(),
		})
	}
	rows := keyboard.Chunk(btns, gridColumns)
	rows = append(rows, []keyboard.InlineBtn{backButton()})
	return keyboard.InlineButtonsRows(rows...)
}

// PhotoKeyboard offers the next page and a link to the original file. The
// next button is omitted when its token would not fit.
func PhotoKeyboard(codec *action.Codec, a action.Action, p pexels.Photo) *tele.ReplyMarkup {
	row := make([]keyboard.InlineBtn, 0, 2)
	if tok, err := codec.Encode(a.Next()); err == nil {
		row = append(row, keyboard.InlineBtn{Text: labelNext, Data: tok})
	}
	row = append(row, keyboard.InlineBtn{Text: labelOriginal, URL: p.OriginalURL})
	return keyboard.InlineButtonsRows(row)
}

// Caption is the photo caption: search term and photographer.
func Caption(term string, p pexels.Photo) string {
	return "🖼 " + term + "\n📸 " + p.Photographer
}

func backButton() keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: labelBack, Data: action.Back().Encode()}
}

// adminText renders the usage summary in MarkdownV2.
func adminText(cat *catalog.Catalog, s usage.Summary) string {
	esc := func(v string) string {
		out, _ := format.EscapeMarkdown(v, format.MarkdownV2)
		return out
	}
	var b strings.Builder
	b.WriteString("*👑 Admin panel*\n\n")
	fmt.Fprintf(&b, "👥 Users: *%d*\n", s.Users)
	fmt.Fprintf(&b, "📥 Downloads: *%d*\n", s.Downloads)
	if len(s.Categories) > 0 {
		b.WriteString("\n")
	}
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "%s: %d\n", esc(cat.Label(c.Category)), c.Downloads)
	}
	return strings.TrimRight(b.String(), "\n")
}

func keyboardBack() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{backButton()})
}
