package utils

import "testing"

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kids Class (1).JPG", "Kids_Class_1.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\uploads\hero shot.png`, "hero_shot.png"},
		{"???.png", "image.png"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.in, "image"); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Why Kids Should Train BJJ!", "why-kids-should-train-bjj"},
		{"  --Open Mat: Saturday @ Noon--  ", "open-mat-saturday-noon"},
		{"Ünïcode Title", "n-code-title"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
