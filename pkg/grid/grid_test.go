package grid

import "testing"

func TestIndex(t *testing.T) {
	tests := []struct {
		x, y int
		cols int
		want int
	}{
		// 64 cols (Standard)
		{0, 0, 64, 0},
		{1, 0, 64, 1},
		{63, 0, 64, 63},
		{0, 1, 64, 64},
		{1, 1, 64, 65},
		{63, 1, 64, 127},
		{0, 2, 64, 128},
		{63, 31, 64, 2047},

		// 32 cols
		{31, 0, 32, 31},
		{0, 1, 32, 32},
		{31, 31, 32, 1023},
	}

	for _, tc := range tests {
		if got := Index(tc.x, tc.y, tc.cols); got != tc.want {
			t.Errorf("Index(%d, %d, %d) = %d; want %d", tc.x, tc.y, tc.cols, got, tc.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, n, want int
	}{
		{0, 64, 0},
		{63, 64, 63},
		{64, 64, 0},
		{70, 64, 6},
		{-1, 32, 31},
		{255 + 7, 32, 6},
	}
	for _, tc := range tests {
		if got := Wrap(tc.v, tc.n); got != tc.want {
			t.Errorf("Wrap(%d, %d) = %d; want %d", tc.v, tc.n, got, tc.want)
		}
	}
}
