// Package lang defines the source languages styleguard understands.
package lang

import "path/filepath"

// Language identifies a supported source language.
type Language string

const (
	// CSS is plain CSS.
	CSS Language = "css"

	// SCSS is Sass in SCSS syntax. SCSS is a superset of CSS, so the
	// SCSS adapter handles both.
	SCSS Language = "scss"

	// Python is Python (including Django code).
	Python Language = "python"
)

// Valid reports whether l names a supported language.
func (l Language) Valid() bool {
	switch l {
	case CSS, SCSS, Python:
		return true
	default:
		return false
	}
}

// String returns the language name.
func (l Language) String() string {
	return string(l)
}

// FromPath maps a file path to its language by extension.
func FromPath(path string) (Language, bool) {
	switch filepath.Ext(path) {
	case ".css":
		return CSS, true
	case ".scss":
		return SCSS, true
	case ".py":
		return Python, true
	default:
		return "", false
	}
}

// Extensions returns the file extensions handled by the engine.
func Extensions() []string {
	return []string{".css", ".scss", ".py"}
}
