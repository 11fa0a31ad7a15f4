package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/trussim/internal/solver"
)

const (
	tensionColor     = "#ff4444"
	compressionColor = "#4488ff"
	neutralColor     = "#888899"
	deformedColor    = "#00ff88"
)

type SVGOptions struct {
	// Scale is the number of pixels per model length unit.
	Scale float64
	// Deformed draws the displaced shape with displacements magnified by
	// Magnify. A zero Magnify picks a factor that makes the largest
	// displacement a tenth of the truss span.
	Deformed bool
	Magnify  float64
}

type point struct{ X, Y float64 }

// ResultToSVG draws the truss of res. Members are coloured by the sign
// of their axial force and supports are drawn as triangles.
func ResultToSVG(res *solver.Result, opts SVGOptions) string {
	if len(res.Nodes) == 0 {
		return ""
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 50
	}

	pts := make([]point, len(res.Nodes))
	for i, n := range res.Nodes {
		pts[i] = point{n.X, n.Y}
	}

	var deformed []point
	if opts.Deformed && len(res.Displacements) == 2*len(res.Nodes) {
		mag := opts.Magnify
		if mag <= 0 {
			mag = autoMagnify(pts, res.Displacements)
		}
		deformed = make([]point, len(pts))
		for i, p := range pts {
			deformed[i] = point{p.X + mag*res.Displacements[2*i], p.Y + mag*res.Displacements[2*i+1]}
		}
	}

	minX, maxX, minY, maxY := bounds(append(append([]point(nil), pts...), deformed...))
	pad := 1.0
	width := (maxX - minX + 2*pad) * scale
	height := (maxY - minY + 2*pad) * scale

	// model y points up, SVG y points down
	tx := func(p point) (float64, float64) {
		return (p.X - minX + pad) * scale, height - (p.Y-minY+pad)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	sb.WriteString(`<g id="members" stroke-width="3" stroke-linecap="round">` + "\n")
	for i, m := range res.Members {
		color := neutralColor
		if i < len(res.Forces) {
			switch {
			case res.Forces[i] > 0:
				color = tensionColor
			case res.Forces[i] < 0:
				color = compressionColor
			}
		}
		x1, y1 := tx(pts[m.Node1])
		x2, y2 := tx(pts[m.Node2])
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			x1, y1, x2, y2, color))
	}
	sb.WriteString("</g>\n")

	if deformed != nil {
		sb.WriteString(fmt.Sprintf(`<g id="deformed" stroke="%s" stroke-width="1.5" stroke-dasharray="6,4">`+"\n", deformedColor))
		for _, m := range res.Members {
			x1, y1 := tx(deformed[m.Node1])
			x2, y2 := tx(deformed[m.Node2])
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g id="supports" fill="none" stroke="#ffcc00" stroke-width="1.5">` + "\n")
	size := scale * 0.2
	for i, n := range res.Nodes {
		if !n.FixedX && !n.FixedY {
			continue
		}
		x, y := tx(pts[i])
		sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			x, y, x-size, y+1.5*size, x+size, y+1.5*size))
		if n.FixedX != n.FixedY {
			// roller
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
				x-size, y+2*size, x+size, y+2*size))
		}
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g id="nodes" fill="#ffffff">` + "\n")
	for i := range pts {
		x, y := tx(pts[i])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, scale*0.06))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG renders res to path.
func WriteSVG(path string, res *solver.Result, opts SVGOptions) error {
	return os.WriteFile(path, []byte(ResultToSVG(res, opts)), 0644)
}

func bounds(pts []point) (minX, maxX, minY, maxY float64) {
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return
}

func autoMagnify(pts []point, d []float64) float64 {
	minX, maxX, minY, maxY := bounds(pts)
	span := math.Max(maxX-minX, maxY-minY)
	maxD := 0.0
	for i := 0; i+1 < len(d); i += 2 {
		maxD = math.Max(maxD, math.Hypot(d[i], d[i+1]))
	}
	if maxD == 0 || span == 0 {
		return 1
	}
	return 0.1 * span / maxD
}
