package signature

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recepcion/pkg/types"
)

const (
	dataURLPrefix = "data:image/png;base64,"

	maxStrokes = 500
	maxPoints  = 20000
)

var (
	ErrUnknownSigner  = errors.New("unknown signer")
	ErrInvalidDataURL = errors.New("not a png data url")
)

// Pad holds one drawing surface per signer.
type Pad struct {
	surfaces map[types.Signer]*Canvas
}

func NewPad(width, height int) *Pad {
	p := &Pad{surfaces: make(map[types.Signer]*Canvas, len(types.Signers))}
	for _, s := range types.Signers {
		p.surfaces[s] = NewCanvas(width, height)
	}
	return p
}

func (p *Pad) Draw(signer types.Signer, strokes []Stroke) error {
	c, ok := p.surfaces[signer]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSigner, signer)
	}

	for _, stroke := range strokes {
		c.Stroke(stroke)
	}
	return nil
}

func (p *Pad) Clear(signer types.Signer) {
	if c, ok := p.surfaces[signer]; ok {
		c.Clear()
	}
}

func (p *Pad) IsEmpty(signer types.Signer) bool {
	c, ok := p.surfaces[signer]
	return !ok || c.IsEmpty()
}

func (p *Pad) ExportImage(signer types.Signer) (string, error) {
	c, ok := p.surfaces[signer]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSigner, signer)
	}
	return c.ExportImage()
}

// ParseStrokes decodes the browser payload, a JSON array of strokes where
// each stroke is an array of [x, y] pairs. A blank payload means no strokes.
func ParseStrokes(payload string) ([]Stroke, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, nil
	}

	var raw [][][2]float64
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decode strokes: %w", err)
	}

	if len(raw) > maxStrokes {
		return nil, fmt.Errorf("too many strokes: %d", len(raw))
	}

	strokes := make([]Stroke, 0, len(raw))
	points := 0
	for _, r := range raw {
		points += len(r)
		if points > maxPoints {
			return nil, fmt.Errorf("too many points: more than %d", maxPoints)
		}
		stroke := make(Stroke, len(r))
		for i, pt := range r {
			stroke[i] = Point{X: pt[0], Y: pt[1]}
		}
		strokes = append(strokes, stroke)
	}

	return strokes, nil
}

func EncodeDataURL(png []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}

func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode signature data url: %w", err)
	}
	return data, nil
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}
