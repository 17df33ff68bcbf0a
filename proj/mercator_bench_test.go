package proj

import "testing"

func BenchmarkLatLonToWorld(b *testing.B) {
	coords := [][2]float64{
		{0, 0},
		{180, maxLat},
		{-180, minLat},
		{-122.67890, 45.12345},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range coords {
			LatLonToWorld(c[0], c[1])
		}
	}
}

func BenchmarkWebMercatorToWorld(b *testing.B) {
	coords := [][2]float64{
		{0, 0},
		{20037508.34, 20037508.34},
		{-20037508.34, -20037508.34},
		{-13656274.0, 5703158.0}, // Portland, OR
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range coords {
			WebMercatorToWorld(c[0], c[1])
		}
	}
}
