package entities

// Point is a position in CSS pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width and height in CSS pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an element's bounding box
type Rect struct {
	Point
	Size
}

// Center returns the middle of the box
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Coordinates is a point normalised to [0,1] against a window size
type Coordinates struct {
	X float64
	Y float64
}

// Normalize converts an absolute position into window-relative coordinates.
// Fractions are computed from the exact centre, so half pixels survive.
func Normalize(r Rect, window Size) Coordinates {
	if window.Width == 0 || window.Height == 0 {
		return Coordinates{}
	}
	return Coordinates{
		X: (float64(r.X) + float64(r.Width)/2) / float64(window.Width),
		Y: (float64(r.Y) + float64(r.Height)/2) / float64(window.Height),
	}
}

// Absolute converts coordinates back to pixels for the given window size
func (c Coordinates) Absolute(window Size) Point {
	return Point{
		X: int(c.X * float64(window.Width)),
		Y: int(c.Y * float64(window.Height)),
	}
}
