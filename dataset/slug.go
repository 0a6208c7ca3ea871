package dataset

import (
	"strings"
	"unicode"

	"github.com/andyle182810/tensorci/formdata"
	"github.com/andyle182810/tensorci/session"
	"github.com/gosimple/slug"
)

// Slugify lowercases name, transliterates accents and joins words with
// hyphens. Punctuation separates words and is never spelled out, so "R&D"
// becomes "r-d". Applying it twice gives the same result.
func Slugify(name string) string {
	return slug.Make(strings.Map(wordRune, name))
}

// wordRune keeps letters, digits and combining marks and turns everything
// else into a space, ahead of slug's language substitutions.
func wordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
		return r
	}

	return ' '
}

// ResolveSlug picks the dataset slug: the slugified name when one is given,
// otherwise the prediction slug from the base payload.
func ResolveSlug(name string, payload *formdata.Payload) (string, error) {
	if name != "" {
		s := Slugify(name)
		if s == "" {
			return "", ErrInvalidName
		}

		return s, nil
	}

	prediction, ok := payload.Get(session.FieldPredictionSlug)
	if !ok || prediction == "" {
		return "", session.ErrNoPrediction
	}

	return prediction, nil
}
