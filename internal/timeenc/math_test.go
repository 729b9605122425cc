package timeenc

import "testing"

func TestFloorDiv(t *testing.T) {
	tests := []struct{ x, y, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
		{-6, 3, -2},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.x, tt.y); got != tt.want {
			t.Fatalf("FloorDiv(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFloorMod(t *testing.T) {
	tests := []struct{ x, y, want int64 }{
		{7, 3, 1},
		{-1, 7, 6},
		{-7, 3, 2},
		{7, -3, -2},
		{0, 7, 0},
		{-14, 7, 0},
	}
	for _, tt := range tests {
		if got := FloorMod(tt.x, tt.y); got != tt.want {
			t.Fatalf("FloorMod(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}
