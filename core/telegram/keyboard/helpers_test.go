package keyboard

import "testing"

func TestChunkOddTail(t *testing.T) {
	btns := []InlineBtn{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	rows := Chunk(btns, 2)
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 1 || rows[1][0].Text != "c" {
		t.Fatalf("Chunk = %+v", rows)
	}
}

func TestInlineButtonsRowsSkipsEmptyRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "go", Data: "\fget|x"}},
		nil,
		[]InlineBtn{{Text: "site", URL: "https://t.me/dev"}},
	)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.InlineKeyboard))
	}
	if m.InlineKeyboard[0][0].Data != "\fget|x" || m.InlineKeyboard[1][0].URL != "https://t.me/dev" {
		t.Fatalf("unexpected markup: %+v", m.InlineKeyboard)
	}
}
