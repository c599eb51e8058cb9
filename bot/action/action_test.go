package action

import (
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/wallbot/bot/catalog"
)

func TestRoundTrip(t *testing.T) {
	codec := NewCodec(catalog.Default())
	actions := []Action{
		Device(catalog.Mobile),
		Device(catalog.Laptop),
		Categories(catalog.Laptop),
		Fetch(catalog.Mobile, "Cyberpunk Futuristic City", 1),
		Fetch(catalog.Laptop, "Influential People Celebrity", 9999),
		Back(),
		Admin(),
	}
	for _, a := range actions {
		tok, err := codec.Encode(a)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", a, err)
		}
		if len(tok) > MaxTokenLen {
			t.Fatalf("token %q is %d bytes", tok, len(tok))
		}
		got, err := codec.Decode(tok)
		if err != nil {
			t.Fatalf("Decode(%q): %v", tok, err)
		}
		if got != a {
			t.Fatalf("round trip %q: got %+v, want %+v", tok, got, a)
		}
	}
}

func TestEveryCategoryFitsTokenLimit(t *testing.T) {
	codec := NewCodec(catalog.Default())
	for _, term := range catalog.Default().Terms() {
		if _, err := codec.Encode(Fetch(catalog.Laptop, term, 1_000_000)); err != nil {
			t.Fatalf("term %q: %v", term, err)
		}
	}
}

func TestEncodeWireForm(t *testing.T) {
	if got := Fetch(catalog.Mobile, "Cute Pets", 2).Encode(); got != "\fget|mobile|Cute Pets|2" {
		t.Fatalf("Encode = %q", got)
	}
	if got := Back().Encode(); got != "\fback" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestNext(t *testing.T) {
	a := Fetch(catalog.Laptop, "Cute Pets", 3).Next()
	if a.Page != 4 || a.Category != "Cute Pets" || a.Device != catalog.Laptop {
		t.Fatalf("Next = %+v", a)
	}
}

func TestDecodeMalformed(t *testing.T) {
	codec := NewCodec(catalog.Default())
	cases := []string{
		"",
		"\f",
		"\fzoom",
		"\fdev",
		"\fdev|tablet",
		"\fdev|mobile|extra",
		"\fget|mobile|Cute Pets",
		"\fget|mobile|Cute Pets|0",
		"\fget|mobile|Cute Pets|-1",
		"\fget|mobile|Cute Pets|one",
		"\fget|mobile|Not A Category|1",
		"\fget|tablet|Cute Pets|1",
		"\fback|now",
		"setdev_mobile",
		"\fget|mobile|" + strings.Repeat("x", 70) + "|1",
	}
	for _, data := range cases {
		if _, err := codec.Decode(data); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q) err = %v, want ErrMalformed", data, err)
		}
	}
}

func TestDecodeWithoutPrefix(t *testing.T) {
	a, err := NewCodec(catalog.Default()).Decode("dev|laptop")
	if err != nil || a != Device(catalog.Laptop) {
		t.Fatalf("Decode = %+v, %v", a, err)
	}
}
