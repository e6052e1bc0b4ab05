package fragment

import (
	"strings"

	"github.com/Swader/ciplusplus/internal/tags"
)

// Tag classes reported by Classify.
const (
	ClassSystem         = "system"
	ClassVariable       = "variable"
	ClassViewFragment   = "view-fragment"
	ClassLayoutFragment = "layout-fragment"
	ClassTag            = "tag"
)

// Classify names the role a tag plays in a render: one of the protected
// system tags, caller data, a fragment reference or a plain author tag.
func Classify(tag string) string {
	if tags.IsProtected(tag) {
		return ClassSystem
	}
	if strings.HasPrefix(tag, VarPrefix) && len(tag) > len(VarPrefix) {
		return ClassVariable
	}
	if kind, _, ok := Parse(tag); ok {
		if kind == Layout {
			return ClassLayoutFragment
		}
		return ClassViewFragment
	}
	return ClassTag
}
