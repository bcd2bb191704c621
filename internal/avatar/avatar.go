// Package avatar resolves avatar references of any known shape into a final
// URL the renderer can use.
package avatar

import (
	"strings"
)

// Bundled fallback images.
const (
	FallbackW1    = "/assets/avatars/w1.jpg"
	FallbackMale1 = "/assets/avatars/male1.jpg"
	FallbackW2    = "/assets/avatars/w2.jpg"
)

// Kind of an avatar reference.
type Kind int

// Kinds.
const (
	None Kind = iota
	HTTP
	DataURI
	Blob
	Asset
	Relative
	Opaque
)

var assetPrefixes = []string{"/_astro/", "/src/", "/assets/"}

// Source is a classified avatar reference.
type Source struct {
	Kind  Kind
	Value string
}

// Classify inspects a raw avatar string. Empty strings and the literal
// "null"/"undefined" placeholders classify as None.
func Classify(raw string) Source {
	v := strings.TrimSpace(raw)

	switch {
	case v == "" || v == "null" || v == "undefined":
		return Source{Kind: None}
	case strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://"):
		return Source{Kind: HTTP, Value: v}
	case strings.HasPrefix(v, "data:"):
		return Source{Kind: DataURI, Value: v}
	case strings.HasPrefix(v, "blob:"):
		return Source{Kind: Blob, Value: v}
	}

	for _, p := range assetPrefixes {
		if strings.HasPrefix(v, p) {
			return Source{Kind: Asset, Value: v}
		}
	}

	if strings.HasPrefix(v, "/") {
		return Source{Kind: Relative, Value: v}
	}

	return Source{Kind: Opaque, Value: v}
}

// Resolve maps a source to its final URL. Relative paths are absolutized
// against base; None resolves to an empty string so callers can render a
// placeholder.
func (s Source) Resolve(base string) string {
	switch s.Kind {
	case None:
		return ""
	case Relative:
		return strings.TrimSuffix(base, "/") + s.Value
	default:
		return s.Value
	}
}

// Ensure guarantees a usable avatar URL, substituting the canonical
// fallback for anything unusable.
func Ensure(raw string) string {
	if s := Classify(raw); s.Kind != None {
		return s.Value
	}

	return FallbackW1
}

// BySkill picks a static fallback image from the author's skill label.
func BySkill(skill string) string {
	s := strings.ToLower(skill)

	switch {
	case strings.Contains(s, "art"):
		return FallbackW1
	case strings.Contains(s, "design"):
		return FallbackMale1
	case strings.Contains(s, "programming"), strings.Contains(s, "web development"):
		return FallbackW2
	default:
		return FallbackW1
	}
}
