// Package render paints a normalized, positioned graph onto a raster
// surface. Painting is immediate mode: every call repaints the full frame
// from an immutable snapshot. At the expected scale (tens to low hundreds of
// nodes) this is cheaper than tracking dirty regions.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"

	"github.com/substratehq/graphview/pkg/graph"
)

// Zoom bounds and step for the explicit zoom controls.
const (
	ZoomMin  = 0.5
	ZoomMax  = 2.0
	ZoomStep = 0.1
)

const (
	backgroundColor = "#ffffff"
	outlineColor    = "#ffffff"
	labelColor      = "#1f2937"
	focusColor      = "#fbbf24"

	edgeAlpha    = 0.6
	outlineWidth = 2.0
	labelOffsetY = 12.0
)

// ErrNoSurface reports a zero-sized or otherwise unpaintable surface. The
// paint pass is skipped instead of panicking.
var ErrNoSurface = errors.New("render: no drawable surface")

// Frame is an immutable snapshot of everything a paint pass reads: the
// positioned graph, the viewport zoom, display flags, and the single-focus
// selection. Coalescing multiple state changes into one Frame keeps the
// number of repaints bounded by the number of frames, not triggers.
type Frame struct {
	Graph       graph.Graph
	Zoom        float64
	ShowLabels  bool
	ShowWeights bool
	FocusID     string
}

// ClampZoom bounds a zoom factor to the supported [0.5, 2.0] range.
func ClampZoom(z float64) float64 {
	if z < ZoomMin {
		return ZoomMin
	}
	if z > ZoomMax {
		return ZoomMax
	}
	return z
}

// Render paints the frame onto a width x height surface. The scale factor is
// the device-pixel-ratio analogue: the backing image is scaled up by it
// while logical coordinates stay in the 800x600 space.
func Render(f Frame, width, height int, scale float64) (image.Image, error) {
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil, ErrNoSurface
	}

	zoom := ClampZoom(f.Zoom)

	dc := gg.NewContext(int(float64(width)*scale), int(float64(height)*scale))
	dc.SetHexColor(backgroundColor)
	dc.Clear()
	dc.Scale(scale*zoom, scale*zoom)

	positions := make(map[string]graph.Position, len(f.Graph.Nodes))
	for _, n := range f.Graph.Nodes {
		if n.Position != nil {
			positions[n.ID] = *n.Position
		}
	}

	// Edges first so nodes paint on top of them.
	for _, e := range f.Graph.Edges {
		from, okFrom := positions[e.SourceID]
		to, okTo := positions[e.TargetID]
		if !okFrom || !okTo {
			continue
		}
		dc.SetColor(withAlpha(e.Color, edgeAlpha))
		dc.SetLineWidth(e.StrokeWidth())
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()

		if f.ShowWeights {
			dc.SetHexColor(labelColor)
			dc.DrawStringAnchored(
				fmt.Sprintf("%.1f", e.Weight),
				(from.X+to.X)/2, (from.Y+to.Y)/2,
				0.5, 0.5,
			)
		}
	}

	for _, n := range f.Graph.Nodes {
		if n.Position == nil {
			continue
		}
		fill := n.Color
		if n.ID == f.FocusID {
			fill = focusColor
		}
		dc.SetHexColor(fill)
		dc.DrawCircle(n.Position.X, n.Position.Y, n.Radius)
		dc.Fill()

		dc.SetHexColor(outlineColor)
		dc.SetLineWidth(outlineWidth)
		dc.DrawCircle(n.Position.X, n.Position.Y, n.Radius)
		dc.Stroke()

		if f.ShowLabels && n.TruncatedLabel != "" {
			dc.SetHexColor(labelColor)
			dc.DrawStringAnchored(n.TruncatedLabel, n.Position.X, n.Position.Y+n.Radius+labelOffsetY, 0.5, 0.5)
		}
	}

	return dc.Image(), nil
}

// RenderPNG paints the frame and encodes it as PNG.
func RenderPNG(f Frame, width, height int, scale float64) ([]byte, error) {
	img, err := Render(f, width, height, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// HitTest converts client coordinates to logical space by undoing the zoom
// transform and returns the first node whose circle contains the point. The
// scan is linear; at the expected node counts a spatial index buys nothing.
func HitTest(g graph.Graph, x, y, zoom float64) *graph.Node {
	zoom = ClampZoom(zoom)
	lx := x / zoom
	ly := y / zoom
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Position == nil {
			continue
		}
		if math.Hypot(n.Position.X-lx, n.Position.Y-ly) <= n.Radius {
			return n
		}
	}
	return nil
}

// withAlpha parses a #RRGGBB hex color and applies the given alpha.
func withAlpha(hex string, alpha float64) color.Color {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
			r, g, b = 107, 114, 128
		}
	} else {
		r, g, b = 107, 114, 128
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha * 255)}
}
