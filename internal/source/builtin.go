package source

import (
	"embed"
	"io/fs"
)

//go:embed skeleton
var skeletonFS embed.FS

// Skeleton returns the embedded starter tree: a default layout with header
// and footer fragments, a welcome view and a notice fragment.
func Skeleton() fs.FS {
	sub, err := fs.Sub(skeletonFS, "skeleton")
	if err != nil {
		panic(err)
	}
	return sub
}

// Builtin returns the embedded skeleton as a Source. It sits last in the
// chain so every file can be overridden by the project.
func Builtin() *FS {
	return NewFS("built-in", Skeleton())
}
