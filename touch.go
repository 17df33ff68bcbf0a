package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// touchState tracks the last known position of every active touch
type touchState struct {
	ids   []ebiten.TouchID
	lastX map[ebiten.TouchID]float64
	lastY map[ebiten.TouchID]float64
}

// refresh samples the active touches and forgets ended ones
func (ts *touchState) refresh() {
	// Use AppendTouchIDs instead of TouchIDs
	ts.ids = ebiten.AppendTouchIDs(ts.ids[:0])

	// Initialize touch tracking maps if needed
	if ts.lastX == nil {
		ts.lastX = make(map[ebiten.TouchID]float64)
		ts.lastY = make(map[ebiten.TouchID]float64)
	}

	// Clean up ended touches
	for id := range ts.lastX {
		if !containsTouchID(ts.ids, id) {
			delete(ts.lastX, id)
			delete(ts.lastY, id)
		}
	}
}

// primary reports the position of a single active touch. It is sampled as
// the left pointer button; two or more touches are a pinch instead.
func (ts *touchState) primary() (x, y int, ok bool) {
	ts.refresh()
	if len(ts.ids) != 1 {
		return 0, 0, false
	}
	x, y = ebiten.TouchPosition(ts.ids[0])
	return x, y, true
}

// handleTouchZoom zooms the map on a two finger pinch
func (g *Berry) handleTouchZoom() {
	ts := &g.touches
	if len(ts.ids) != 2 {
		for _, id := range ts.ids {
			delete(ts.lastX, id)
			delete(ts.lastY, id)
		}
		return
	}

	id1, id2 := ts.ids[0], ts.ids[1]
	x1, y1 := ebiten.TouchPosition(id1)
	x2, y2 := ebiten.TouchPosition(id2)

	currentDist := distance(float64(x1), float64(y1), float64(x2), float64(y2))

	if _, ok := ts.lastX[id1]; ok {
		if _, ok := ts.lastX[id2]; ok {
			prevDist := distance(ts.lastX[id1], ts.lastY[id1],
				ts.lastX[id2], ts.lastY[id2])

			midX := (float64(x1) + float64(x2)) / 2
			midY := (float64(y1) + float64(y2)) / 2

			if currentDist > prevDist*1.1 { // Zoom in
				g.zoom(true, midX, midY)
			} else if currentDist < prevDist*0.9 { // Zoom out
				g.zoom(false, midX, midY)
			} else {
				return
			}
		}
	}

	ts.lastX[id1], ts.lastY[id1] = float64(x1), float64(y1)
	ts.lastX[id2], ts.lastY[id2] = float64(x2), float64(y2)
}

// Helper function to check if a TouchID is in a slice
func containsTouchID(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, tid := range ids {
		if tid == id {
			return true
		}
	}
	return false
}

// Helper function to calculate distance between two points
func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
