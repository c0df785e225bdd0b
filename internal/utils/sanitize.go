package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_\s]+`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
)

// SafeFilename keeps an upload's name readable but storage-safe:
// "Kids Class (1).JPG" -> "Kids_Class_1.jpg".
func SafeFilename(filename, def string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))

	clean := unsafeNameChars.ReplaceAllString(name, "")
	clean = strings.Join(strings.Fields(clean), "_")
	if clean == "" {
		clean = def
	}
	ext = unsafeNameChars.ReplaceAllString(ext, "")
	if ext != "" {
		ext = "." + strings.TrimPrefix(ext, ".")
	}
	return clean + ext
}

// Slugify builds a URL slug from a title: lowercase, runs of anything
// that is not a letter or digit become "-", no leading/trailing "-".
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
