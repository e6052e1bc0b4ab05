// Package parser substitutes stored tag values into template text.
//
// Substitution is a single left-to-right pass. A tag whose name is in the
// store is replaced by the stored text; any other tag is left exactly as
// written. Inserted text is never scanned again, so a value that itself
// contains {{name}} comes out literally.
package parser

import (
	"io"

	"github.com/Swader/ciplusplus/internal/tags"
)

// Substitute returns body with every known tag replaced by its stored text.
func Substitute(store *tags.Store, body string) string {
	if store == nil || store.Len() == 0 {
		return body
	}
	return tags.Pattern.ReplaceAllStringFunc(body, func(match string) string {
		name := match[2 : len(match)-2]
		if v, ok := store.Get(name); ok {
			return v
		}
		return match
	})
}

// WriteTo writes the substituted body to w piece by piece, without building
// the whole result in memory first. The output is identical to Substitute.
func WriteTo(w io.Writer, store *tags.Store, body string) (int64, error) {
	var total int64
	write := func(s string) error {
		n, err := io.WriteString(w, s)
		total += int64(n)
		return err
	}

	if store == nil {
		err := write(body)
		return total, err
	}

	last := 0
	for _, loc := range tags.Pattern.FindAllStringSubmatchIndex(body, -1) {
		v, ok := store.Get(body[loc[2]:loc[3]])
		if !ok {
			continue
		}
		if err := write(body[last:loc[0]]); err != nil {
			return total, err
		}
		if err := write(v); err != nil {
			return total, err
		}
		last = loc[1]
	}
	if err := write(body[last:]); err != nil {
		return total, err
	}
	return total, nil
}

// SubstituteInPlace rewrites *body with Substitute.
func SubstituteInPlace(store *tags.Store, body *string) {
	if body == nil {
		return
	}
	*body = Substitute(store, *body)
}

// Missing returns the names referenced by body that the store does not
// hold, in first-occurrence order. Those tags render literally.
func Missing(store *tags.Store, body string) []string {
	var missing []string
	for _, name := range tags.Extract(body) {
		if store == nil || !store.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
