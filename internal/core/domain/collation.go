package domain

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation strengths, following the ICU levels MongoDB accepts.
const (
	StrengthPrimary   = 1 // base letters only: case and accents fold
	StrengthSecondary = 2 // case folds, accents are significant
	StrengthTertiary  = 3 // case and accents are significant
)

// Collation is the comparison used for duplicate checks on unique text fields.
type Collation struct {
	Locale   string
	Strength int
}

// DefaultCollation compares "Title" and "title" as equal but keeps "café" and "cafe" apart.
var DefaultCollation = Collation{Locale: "en", Strength: StrengthSecondary}

// Normalize fills zero fields from DefaultCollation.
func (c Collation) Normalize() Collation {
	if c.Locale == "" {
		c.Locale = DefaultCollation.Locale
	}
	if c.Strength < StrengthPrimary || c.Strength > StrengthTertiary {
		c.Strength = DefaultCollation.Strength
	}
	return c
}

// Equal reports whether a and b are the same key under this collation.
// A collate.Collator is not safe for concurrent use, so one is built per call.
func (c Collation) Equal(a, b string) bool {
	c = c.Normalize()

	var opts []collate.Option
	switch c.Strength {
	case StrengthPrimary:
		opts = append(opts, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
	case StrengthSecondary:
		opts = append(opts, collate.IgnoreCase, collate.IgnoreWidth)
	}

	col := collate.New(language.Make(c.Locale), opts...)
	return col.CompareString(a, b) == 0
}
