package layout

import "math"

// enclose computes the smallest circle enclosing all of the given circles,
// using the move-to-front variant of Welzl's algorithm extended to circles
// (Matoušek, Sharir, Welzl): scan for a circle outside the current basis
// enclosure, extend the basis with it, and rescan from the start.
//
// The scan is only robust in expectation over input orderings, so the input
// is shuffled first. The shuffle uses a fixed-seed LCG rather than a global
// RNG: the enclosing circle is unique, and the fixed sequence keeps the
// whole packing reproducible. An ordering can still strand the strict basis
// predicates with no acceptable extension; when that happens the scan
// reshuffles and restarts instead of failing.
func enclose(circles []*circle) circle {
	random := lcg()
	shuffled := make([]*circle, len(circles))
	copy(shuffled, circles)
	shuffleCircles(shuffled, random)

	var (
		basis []*circle
		e     circle
		valid bool
	)

	i := 0
	for i < len(shuffled) {
		p := shuffled[i]
		if valid && enclosesWeak(e, p) {
			i++
			continue
		}
		next := extendBasis(basis, p)
		if next == nil {
			shuffleCircles(shuffled, random)
			basis, valid, i = nil, false, 0
			continue
		}
		basis = next
		e = encloseBasis(basis)
		valid = true
		i = 0
	}

	return e
}

// lcg returns a linear congruential generator with a fixed seed, yielding
// values in [0, 1). Numerical Recipes parameters, 2^32 modulus.
func lcg() func() float64 {
	const (
		a = 1664525
		c = 1013904223
		m = 1 << 32
	)
	s := uint64(1)
	return func() float64 {
		s = (a*s + c) % m
		return float64(s) / m
	}
}

// shuffleCircles is a Fisher-Yates shuffle driven by the given source.
func shuffleCircles(circles []*circle, random func() float64) {
	for m := len(circles); m > 0; {
		i := int(random() * float64(m))
		m--
		circles[m], circles[i] = circles[i], circles[m]
	}
}

// extendBasis returns a new basis of at most three circles that includes p
// on its boundary, or nil when no extension satisfies the predicates for
// this scan order.
func extendBasis(basis []*circle, p *circle) []*circle {
	if enclosesWeakAll(circle{p.x, p.y, p.r}, basis) {
		return []*circle{p}
	}

	// If we get here then basis must have at least one element.
	for _, b := range basis {
		if enclosesNot(circle{p.x, p.y, p.r}, b) &&
			enclosesWeakAll(encloseBasis2(b, p), basis) {
			return []*circle{b, p}
		}
	}

	// If we get here then basis must have at least two elements.
	for i := 0; i < len(basis)-1; i++ {
		for j := i + 1; j < len(basis); j++ {
			bi, bj := basis[i], basis[j]
			if enclosesNot(encloseBasis2(bi, bj), p) &&
				enclosesNot(encloseBasis2(bi, p), bj) &&
				enclosesNot(encloseBasis2(bj, p), bi) &&
				enclosesWeakAll(encloseBasis3(bi, bj, p), basis) {
				return []*circle{bi, bj, p}
			}
		}
	}

	return nil
}

// enclosesNot reports that a does not fully contain b.
func enclosesNot(a circle, b *circle) bool {
	dr := a.r - b.r
	dx := b.x - a.x
	dy := b.y - a.y
	return dr < 0 || dr*dr < dx*dx+dy*dy
}

// enclosesWeak reports that a contains b, with a relative tolerance so
// boundary circles count as enclosed.
func enclosesWeak(a circle, b *circle) bool {
	dr := a.r - b.r + math.Max(math.Max(a.r, b.r), 1)*1e-9
	dx := b.x - a.x
	dy := b.y - a.y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

func enclosesWeakAll(a circle, basis []*circle) bool {
	for _, b := range basis {
		if !enclosesWeak(a, b) {
			return false
		}
	}
	return true
}

// encloseBasis computes the circle determined by a basis of 1-3 circles.
func encloseBasis(basis []*circle) circle {
	switch len(basis) {
	case 1:
		return circle{basis[0].x, basis[0].y, basis[0].r}
	case 2:
		return encloseBasis2(basis[0], basis[1])
	default:
		return encloseBasis3(basis[0], basis[1], basis[2])
	}
}

// encloseBasis2 returns the smallest circle enclosing two circles, both on
// its boundary.
func encloseBasis2(a, b *circle) circle {
	x1, y1, r1 := a.x, a.y, a.r
	x2, y2, r2 := b.x, b.y, b.r
	x21, y21, r21 := x2-x1, y2-y1, r2-r1
	l := math.Sqrt(x21*x21 + y21*y21)
	return circle{
		x: (x1 + x2 + x21/l*r21) / 2,
		y: (y1 + y2 + y21/l*r21) / 2,
		r: (l + r1 + r2) / 2,
	}
}

// encloseBasis3 returns the circle tangent to three circles from outside,
// all on its boundary.
func encloseBasis3(a, b, c *circle) circle {
	x1, y1, r1 := a.x, a.y, a.r
	x2, y2, r2 := b.x, b.y, b.r
	x3, y3, r3 := c.x, c.y, c.r
	a2 := x1 - x2
	a3 := x1 - x3
	b2 := y1 - y2
	b3 := y1 - y3
	c2 := r2 - r1
	c3 := r3 - r1
	d1 := x1*x1 + y1*y1 - r1*r1
	d2 := d1 - x2*x2 - y2*y2 + r2*r2
	d3 := d1 - x3*x3 - y3*y3 + r3*r3
	ab := a3*b2 - a2*b3
	xa := (b2*d3-b3*d2)/(ab*2) - x1
	xb := (b3*c2 - b2*c3) / ab
	ya := (a3*d2-a2*d3)/(ab*2) - y1
	yb := (a2*c3 - a3*c2) / ab
	qa := xb*xb + yb*yb - 1
	qb := 2 * math.Max(r1, xa*xb+ya*yb)
	qc := xa*xa + ya*ya - r1*r1

	var r float64
	if math.Abs(qa) > 1e-6 {
		r = -(qb + math.Sqrt(qb*qb-4*qa*qc)) / (2 * qa)
	} else {
		r = -qc / qb
	}

	return circle{
		x: x1 + xa + xb*r,
		y: y1 + ya + yb*r,
		r: r,
	}
}
