// Package catalog lists the wallpaper categories and device kinds the bot offers.
package catalog

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Entry is a category: the button label and the search term sent to the provider.
type Entry struct {
	Label string
	Term  string
}

// Device is the target screen kind chosen by the user.
type Device string

const (
	Mobile Device = "mobile"
	Laptop Device = "laptop"
)

// Orientation returns the provider orientation for the device.
func (d Device) Orientation() string {
	if d == Mobile {
		return "portrait"
	}
	return "landscape"
}

// Valid reports whether d is a known device.
func (d Device) Valid() bool {
	return d == Mobile || d == Laptop
}

var entries = []Entry{
	{"🌍 Influential People", "Influential People Celebrity"},
	{"📚 Study & Motivation", "Study Motivation Library"},
	{"👦 Men Profiles", "Men Portrait Fashion"},
	{"👧 Women Profiles", "Women Portrait Aesthetic"},
	{"💻 Coding & Hacking", "Coding Cybersecurity"},
	{"🎮 Gaming", "Gaming Setup 4k"},
	{"🌆 Cyberpunk", "Cyberpunk Futuristic City"},
	{"🌌 Space 8K", "Deep Space Nebula"},
	{"🏎 Supercars", "Luxury Supercars"},
	{"💎 Luxury Life", "Luxury Lifestyle"},
	{"🌑 Dark & Moody", "Dark Moody Aesthetic"},
	{"🍃 Calm & Minimal", "Minimalist Zen"},
	{"🌸 Nature", "Breathtaking Nature"},
	{"🌊 Oceans", "Ocean Blue Undersea"},
	{"🍂 Autumn", "Moody Autumn"},
	{"⛩ Anime Scenery", "Anime Style Scenery"},
	{"🐱 Pets", "Cute Pets"},
	{"🍎 Food", "Gourmet Food Photography"},
	{"🏛 Architecture", "Modern Architecture"},
	{"🎨 Abstract Art", "Abstract Fluid Art"},
}

// Catalog is an ordered, immutable category list.
type Catalog struct {
	entries []Entry
	terms   mapset.Set[string]
}

// New builds a catalog from entries, keeping their order.
func New(list []Entry) *Catalog {
	c := &Catalog{
		entries: append([]Entry(nil), list...),
		terms:   mapset.NewThreadUnsafeSetWithSize[string](len(list)),
	}
	for _, e := range list {
		c.terms.Add(e.Term)
	}
	return c
}

// Default returns the fixed 20-entry catalog.
func Default() *Catalog {
	return New(entries)
}

// Entries returns a copy of the entries in display order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Terms returns the search terms in display order.
func (c *Catalog) Terms() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Term
	}
	return out
}

// Contains reports whether term belongs to the catalog.
func (c *Catalog) Contains(term string) bool {
	return c.terms.Contains(term)
}

// Label returns the button label for term, or term itself when unknown.
func (c *Catalog) Label(term string) string {
	for _, e := range c.entries {
		if e.Term == term {
			return e.Label
		}
	}
	return term
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
