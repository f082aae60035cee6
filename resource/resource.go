// Package resource defines the closed set of classification tags for
// fetched resources. Tags are carried opaquely through the fetch
// pipeline and surface only as logging and metrics labels; nothing in
// the core branches on them.
package resource

// Kind labels what a request is fetching.
type Kind string

const (
	Unknown     Kind = "Unknown"
	Style       Kind = "Style"
	Source      Kind = "Source"
	Tile        Kind = "Tile"
	Glyphs      Kind = "Glyphs"
	SpriteImage Kind = "SpriteImage"
	SpriteJSON  Kind = "SpriteJSON"
	Image       Kind = "Image"
)

// Kinds returns the full tag set.
func Kinds() []Kind {
	return []Kind{Unknown, Style, Source, Tile, Glyphs, SpriteImage, SpriteJSON, Image}
}

// Valid reports whether k is a member of the tag set. The zero value
// is treated as Unknown and is valid.
func (k Kind) Valid() bool {
	if k == "" {
		return true
	}
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the tag label, mapping the zero value to Unknown.
func (k Kind) String() string {
	if k == "" {
		return string(Unknown)
	}
	return string(k)
}
