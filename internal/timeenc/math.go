package timeenc

// FloorDiv divides x by y rounding toward negative infinity.
func FloorDiv(x, y int64) int64 {
	q := x / y
	if (x^y) < 0 && q*y != x {
		q--
	}
	return q
}

// FloorMod returns the floored remainder of x/y. Unlike the native %
// operator the result always has the sign of y, which is what calendar
// math (day-of-week in particular) needs for instants before the epoch.
func FloorMod(x, y int64) int64 {
	return x - FloorDiv(x, y)*y
}
