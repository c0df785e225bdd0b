// Package placement describes how a media asset is cropped, zoomed and
// positioned inside a fixed aspect-ratio frame, and converts that
// description to and from the string stored in page content records.
//
// Positions follow the CSS object-position model: a coordinate of 0 pins
// the left/top edge of the asset to the frame, 100 pins the right/bottom
// edge. Pixel offsets used by drag editors are derived, never stored.
package placement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ObjectFit string

const (
	Cover   ObjectFit = "cover"
	Contain ObjectFit = "contain"
)

const (
	RatioPortrait = "4 / 5"
	RatioSquare   = "1 / 1"
	RatioWide     = "16 / 9"
)

type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Descriptor is the value stored for "image_details" content.
type Descriptor struct {
	URL         string    `json:"url"`
	Coords      Coords    `json:"coords"`
	Zoom        float64   `json:"zoom"`
	AspectRatio string    `json:"aspectRatio"`
	ObjectFit   ObjectFit `json:"objectFit"`
	PostLink    string    `json:"postLink,omitempty"`
}

type FrameOffset struct {
	OffsetX        float64 `json:"offset_x"`
	OffsetY        float64 `json:"offset_y"`
	RenderedWidth  float64 `json:"rendered_width"`
	RenderedHeight float64 `json:"rendered_height"`
}

// EncodeError rejects a descriptor that cannot be persisted.
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	return "placement: " + e.Reason
}

// DefaultAspectRatio picks the frame ratio for a section when the stored
// descriptor does not carry one.
func DefaultAspectRatio(sectionID string) string {
	id := strings.ToLower(sectionID)
	switch {
	case strings.Contains(id, "instructor"):
		return RatioPortrait
	case strings.Contains(id, "logo"),
		strings.Contains(id, "carousel"),
		strings.Contains(id, "instagram"):
		return RatioSquare
	default:
		return RatioWide
	}
}

// Default returns a centered, unzoomed cover placement for url.
func Default(sectionID, url string) Descriptor {
	return Descriptor{
		URL:         url,
		Coords:      Coords{X: 50, Y: 50},
		Zoom:        1,
		AspectRatio: DefaultAspectRatio(sectionID),
		ObjectFit:   Cover,
	}
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Clamp returns d with both coordinates inside [0,100].
func (d Descriptor) Clamp() Descriptor {
	d.Coords.X = clampPercent(d.Coords.X)
	d.Coords.Y = clampPercent(d.Coords.Y)
	return d
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports why d cannot be saved, or nil.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.URL) == "" && strings.TrimSpace(d.PostLink) == "" {
		return &EncodeError{Reason: "descriptor has neither url nor postLink"}
	}
	if !finite(d.Zoom) || d.Zoom <= 0 {
		return &EncodeError{Reason: fmt.Sprintf("zoom must be a positive number, got %v", d.Zoom)}
	}
	if !finite(d.Coords.X) || !finite(d.Coords.Y) {
		return &EncodeError{Reason: "coords must be finite numbers"}
	}
	if d.ObjectFit != "" && d.ObjectFit != Cover && d.ObjectFit != Contain {
		return &EncodeError{Reason: fmt.Sprintf("unknown objectFit %q", d.ObjectFit)}
	}
	return nil
}

// Encode serializes d for storage. Coordinates are clamped to [0,100].
func Encode(d Descriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	d = d.Clamp()
	if d.ObjectFit == "" {
		d.ObjectFit = Cover
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", &EncodeError{Reason: err.Error()}
	}
	return string(b), nil
}

// wireDescriptor accepts the loose shapes older editors wrote, where
// zoom and coordinates were sometimes strings.
type wireDescriptor struct {
	URL         string          `json:"url"`
	Coords      *wireCoords     `json:"coords"`
	Zoom        json.RawMessage `json:"zoom"`
	AspectRatio string          `json:"aspectRatio"`
	ObjectFit   string          `json:"objectFit"`
	PostLink    string          `json:"postLink"`
}

type wireCoords struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

func looseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")), 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// Decode never fails. A value that is not a JSON object is treated as a
// bare asset URL written before descriptors existed; degraded reports
// that fallback so callers can count it.
func Decode(sectionID, raw string) (d Descriptor, degraded bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Default(sectionID, raw), true
	}

	var w wireDescriptor
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	if err := dec.Decode(&w); err != nil || dec.More() {
		return Default(sectionID, raw), true
	}

	d = Default(sectionID, w.URL)
	d.PostLink = w.PostLink
	if z, ok := looseNumber(w.Zoom); ok && z > 0 {
		d.Zoom = z
	}
	if w.Coords != nil {
		if x, ok := looseNumber(w.Coords.X); ok {
			d.Coords.X = x
		}
		if y, ok := looseNumber(w.Coords.Y); ok {
			d.Coords.Y = y
		}
	}
	if w.AspectRatio != "" {
		d.AspectRatio = w.AspectRatio
	}
	if fit := ObjectFit(w.ObjectFit); fit == Contain {
		d.ObjectFit = Contain
	}
	return d, false
}

// ComputeFrameOffset positions the zoomed asset inside a frame of the
// given pixel size, matching what a browser renders for object-position.
func ComputeFrameOffset(d Descriptor, frameWidth, frameHeight float64) FrameOffset {
	zoom := d.Zoom
	if !finite(zoom) || zoom <= 0 {
		zoom = 1
	}
	c := d.Clamp().Coords

	out := FrameOffset{
		RenderedWidth:  frameWidth * zoom,
		RenderedHeight: frameHeight * zoom,
	}
	if maxX := frameWidth - out.RenderedWidth; maxX < 0 {
		out.OffsetX = maxX * (c.X / 100)
	}
	if maxY := frameHeight - out.RenderedHeight; maxY < 0 {
		out.OffsetY = maxY * (c.Y / 100)
	}
	return out
}

// CoordsFromOffset converts a pixel drag position back to percentages.
// Axes that cannot pan report the centered value.
func CoordsFromOffset(d Descriptor, frameWidth, frameHeight, offsetX, offsetY float64) Coords {
	zoom := d.Zoom
	if !finite(zoom) || zoom <= 0 {
		zoom = 1
	}
	c := Coords{X: 50, Y: 50}
	if maxX := frameWidth - frameWidth*zoom; maxX < 0 {
		c.X = clampPercent(offsetX / maxX * 100)
	}
	if maxY := frameHeight - frameHeight*zoom; maxY < 0 {
		c.Y = clampPercent(offsetY / maxY * 100)
	}
	return c
}

// ParseAspectRatio reads "w / h" (spaces optional) as w/h.
func ParseAspectRatio(s string) (float64, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("placement: invalid aspect ratio %q", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("placement: invalid aspect ratio %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("placement: invalid aspect ratio %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("placement: invalid aspect ratio %q", s)
	}
	return w / h, nil
}

// FrameHeight returns the frame height for width at the given ratio,
// falling back to 16:9 when the ratio cannot be parsed.
func FrameHeight(width float64, aspectRatio string) float64 {
	r, err := ParseAspectRatio(aspectRatio)
	if err != nil {
		r = 16.0 / 9.0
	}
	return width / r
}
