package tui

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
)

// renderMap draws an equirectangular world grid of w x h cells with a marker
// at (lat, lng) labelled with label. ok=false draws the grid alone.
func renderMap(w, h int, lat, lng float64, ok bool, label string) string {
	if w < 8 || h < 4 {
		return ""
	}
	c := canvas.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCell(' '))
		}
	}

	for lon := -180; lon <= 180; lon += 30 {
		x, _ := project(0, float64(lon), w, h)
		for y := 0; y < h; y++ {
			c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, '┊', mapGridStyle)
		}
	}
	for lat := -60; lat <= 60; lat += 30 {
		_, y := project(float64(lat), 0, w, h)
		r, style := '┈', mapGridStyle
		if lat == 0 {
			r, style = '─', mapEquatorStyle
		}
		for x := 0; x < w; x++ {
			c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, style)
		}
	}

	if ok {
		x, y := project(lat, lng, w, h)
		c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, '●', mapMarkerStyle)
		runes := []rune(label)
		start := x + 2
		if start+len(runes) > w {
			start = x - 1 - len(runes)
		}
		for i, r := range runes {
			px := start + i
			if px < 0 || px >= w {
				continue
			}
			c.SetRuneWithStyle(canvas.Point{X: px, Y: y}, r, mapLabelStyle)
		}
	}
	return c.View()
}

// project maps a coordinate onto a w x h grid, clamped to its bounds.
func project(lat, lng float64, w, h int) (x, y int) {
	x = int(math.Round((lng + 180) / 360 * float64(w-1)))
	y = int(math.Round((90 - lat) / 180 * float64(h-1)))
	return clamp(x, 0, w-1), clamp(y, 0, h-1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
