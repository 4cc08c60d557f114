package tokens

// Box is an axis aligned rectangle. Y grows downward.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Overlaps reports whether b and o share area on both axes. Edges that only
// touch do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X0 < o.X1 && o.X0 < b.X1 && b.Y0 < o.Y1 && o.Y0 < b.Y1
}

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Scale divides x coordinates by width and y coordinates by height.
func (b Box) Scale(width, height float64) Box {
	return Box{
		X0: b.X0 / width,
		Y0: b.Y0 / height,
		X1: b.X1 / width,
		Y1: b.Y1 / height,
	}
}

// Array returns the box as [x0, y0, x1, y1].
func (b Box) Array() [4]float64 {
	return [4]float64{b.X0, b.Y0, b.X1, b.Y1}
}

// Token is one extracted word.
type Token struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// Page holds the tokens of one page in extraction order.
type Page struct {
	Number int     `json:"page"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tokens []Token `json:"tokens"`
}

// Empty reports whether the page has no tokens.
func (p *Page) Empty() bool {
	return p == nil || len(p.Tokens) == 0
}

// Normalized returns a copy of the page tokens with boxes expressed as
// fractions of the page width and height. Pages without a usable size are
// returned unscaled.
func (p *Page) Normalized() []Token {
	if p == nil {
		return nil
	}
	out := make([]Token, len(p.Tokens))
	for i, t := range p.Tokens {
		out[i] = t
		if p.Width > 0 && p.Height > 0 {
			out[i].Box = t.Box.Scale(p.Width, p.Height)
		}
	}
	return out
}
