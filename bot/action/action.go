// Package action encodes menu navigation into Telegram callback data and back.
package action

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/core/telegram/callbacks"
)

// MaxTokenLen is Telegram's callback_data limit in bytes.
const MaxTokenLen = 64

// Verb identifies an action variant. It is also the callback unique key.
type Verb string

const (
	ChooseDevice   Verb = "dev"
	ListCategories Verb = "cats"
	FetchImage     Verb = "get"
	GoBack         Verb = "back"
	AdminPanel     Verb = "admin"
)

// Verbs lists every known verb.
var Verbs = []Verb{ChooseDevice, ListCategories, FetchImage, GoBack, AdminPanel}

var fieldCount = map[Verb]int{ChooseDevice: 1, ListCategories: 1, FetchImage: 3, GoBack: 0, AdminPanel: 0}

// ErrMalformed marks callback data that does not decode to a known action.
var ErrMalformed = errors.New("malformed callback token")

// Action is a decoded button press. Only the fields of its verb are set.
type Action struct {
	Verb     Verb
	Device   catalog.Device
	Category string
	Page     int
}

// Device selection from the start menu.
func Device(d catalog.Device) Action { return Action{Verb: ChooseDevice, Device: d} }

// Categories re-opens the category grid for d.
func Categories(d catalog.Device) Action { return Action{Verb: ListCategories, Device: d} }

// Fetch requests page of category for d.
func Fetch(d catalog.Device, category string, page int) Action {
	return Action{Verb: FetchImage, Device: d, Category: category, Page: page}
}

// Back returns to the start menu.
func Back() Action { return Action{Verb: GoBack} }

// Admin opens the owner panel.
func Admin() Action { return Action{Verb: AdminPanel} }

// Next is the fetch action for the following page.
func (a Action) Next() Action {
	return Fetch(a.Device, a.Category, a.Page+1)
}

func (a Action) fields() []string {
	switch a.Verb {
	case ChooseDevice, ListCategories:
		return []string{string(a.Device)}
	case FetchImage:
		return []string{string(a.Device), a.Category, strconv.Itoa(a.Page)}
	}
	return nil
}

// Encode returns the callback data for a.
func (a Action) Encode() string {
	return callbacks.Join(string(a.Verb), a.fields()...)
}

// Codec validates actions against a catalog.
type Codec struct {
	cat *catalog.Catalog
}

// NewCodec returns a codec that accepts categories from cat.
func NewCodec(cat *catalog.Catalog) *Codec {
	return &Codec{cat: cat}
}

// Encode validates a and returns its callback data.
func (c *Codec) Encode(a Action) (string, error) {
	if err := c.validate(a); err != nil {
		return "", err
	}
	tok := a.Encode()
	if len(tok) > MaxTokenLen {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrMalformed, len(tok), MaxTokenLen)
	}
	return tok, nil
}

// Decode parses callback data. Any error wraps ErrMalformed.
func (c *Codec) Decode(data string) (Action, error) {
	if data == "" || len(data) > MaxTokenLen {
		return Action{}, fmt.Errorf("%w: length %d", ErrMalformed, len(data))
	}
	verb, fields := callbacks.Split(data)
	a := Action{Verb: Verb(verb)}

	n, ok := fieldCount[a.Verb]
	if !ok {
		return Action{}, fmt.Errorf("%w: unknown verb %q", ErrMalformed, verb)
	}
	if len(fields) != n {
		return Action{}, fmt.Errorf("%w: %s wants %d fields, got %d", ErrMalformed, verb, n, len(fields))
	}

	switch a.Verb {
	case ChooseDevice, ListCategories:
		a.Device = catalog.Device(fields[0])
	case FetchImage:
		a.Device = catalog.Device(fields[0])
		a.Category = fields[1]
		page, err := strconv.Atoi(fields[2])
		if err != nil {
			return Action{}, fmt.Errorf("%w: page %q", ErrMalformed, fields[2])
		}
		a.Page = page
	}
	if err := c.validate(a); err != nil {
		return Action{}, err
	}
	return a, nil
}

func (c *Codec) validate(a Action) error {
	switch a.Verb {
	case ChooseDevice, ListCategories:
		if !a.Device.Valid() {
			return fmt.Errorf("%w: device %q", ErrMalformed, a.Device)
		}
	case FetchImage:
		if !a.Device.Valid() {
			return fmt.Errorf("%w: device %q", ErrMalformed, a.Device)
		}
		if a.Page < 1 {
			return fmt.Errorf("%w: page %d", ErrMalformed, a.Page)
		}
		if c.cat != nil && !c.cat.Contains(a.Category) {
			return fmt.Errorf("%w: category %q", ErrMalformed, a.Category)
		}
	case GoBack, AdminPanel:
	default:
		return fmt.Errorf("%w: unknown verb %q", ErrMalformed, a.Verb)
	}
	return nil
}
