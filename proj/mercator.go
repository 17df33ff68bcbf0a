// Package proj projects geographic coordinates into picture space
package proj

import "math"

// Constants for Web Mercator projection
const (
	maxLat    = 85.0511 // arctan(sinh(π))
	minLat    = -85.0511
	maxMeters = 20037508.34
	degToRad  = math.Pi / 180.0
)

// Projection maps a source coordinate pair to normalized world space,
// where the whole Web Mercator square is [0,1] x [0,1] with y down
type Projection func(x, y float64) (wx, wy float64)

// LatLonToWorld converts WGS84 longitude/latitude in degrees to normalized
// world coordinates. Latitude is clamped to the Mercator limits.
func LatLonToWorld(lon, lat float64) (x, y float64) {
	if lat > maxLat {
		lat = maxLat
	} else if lat < minLat {
		lat = minLat
	}

	x = (lon + 180.0) / 360.0
	if lat >= maxLat {
		return x, 0
	}
	if lat <= minLat {
		return x, 1
	}

	sinLat := math.Sin(lat * degToRad)
	y = 0.5 - 0.25*math.Log((1.0+sinLat)/(1.0-sinLat))/math.Pi
	return x, y
}

// WebMercatorToWorld converts EPSG:3857 meters to normalized world
// coordinates
func WebMercatorToWorld(x, y float64) (wx, wy float64) {
	wx = (x + maxMeters) / (2 * maxMeters)
	wy = 1 - ((y + maxMeters) / (2 * maxMeters))
	return wx, wy
}

// Planar keeps coordinates as they are and only flips y so that north is
// up on screen
func Planar(x, y float64) (wx, wy float64) {
	return x, -y
}

// ByName returns the projection registered under name: "latlon",
// "mercator" or "planar". Unknown names fall back to latlon.
func ByName(name string) Projection {
	switch name {
	case "mercator", "epsg3857":
		return WebMercatorToWorld
	case "planar", "none":
		return Planar
	default:
		return LatLonToWorld
	}
}
