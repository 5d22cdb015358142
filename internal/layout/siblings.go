package layout

import "math"

// circle is a mutable circle in weight space. packSiblings assigns x and y.
type circle struct {
	x, y, r float64
}

// chainNode is one entry in the circular front chain.
type chainNode struct {
	c        *circle
	next     *chainNode
	previous *chainNode
}

// place positions c tangent to both a and b, on the side given by the
// orientation of a and b along the front chain.
func place(b, a, c *circle) {
	dx := b.x - a.x
	dy := b.y - a.y
	d2 := dx*dx + dy*dy
	if d2 != 0 {
		a2 := a.r + c.r
		a2 *= a2
		b2 := b.r + c.r
		b2 *= b2
		if a2 > b2 {
			x := (d2 + b2 - a2) / (2 * d2)
			y := math.Sqrt(math.Max(0, b2/d2-x*x))
			c.x = b.x - x*dx - y*dy
			c.y = b.y - x*dy + y*dx
		} else {
			x := (d2 + a2 - b2) / (2 * d2)
			y := math.Sqrt(math.Max(0, a2/d2-x*x))
			c.x = a.x + x*dx - y*dy
			c.y = a.y + x*dy + y*dx
		}
	} else {
		c.x = a.x + c.r
		c.y = a.y
	}
}

// intersects reports whether a and b overlap by more than the floating-point
// tolerance. Tangency does not count as an intersection.
func intersects(a, b *circle) bool {
	dr := a.r + b.r - 1e-6
	dx := b.x - a.x
	dy := b.y - a.y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

// score rates a front-chain edge by the squared distance of the weighted
// midpoint of its two circles from the origin. The pack loop restarts
// placement from the lowest-scoring edge to keep the packing compact.
func score(n *chainNode) float64 {
	a, b := n.c, n.next.c
	ab := a.r + b.r
	dx := (a.x*b.r + b.x*a.r) / ab
	dy := (a.y*b.r + b.y*a.r) / ab
	return dx*dx + dy*dy
}

// packSiblings places every circle so that none overlap, mutating x and y in
// place, and returns the radius of the smallest circle enclosing them all.
// The packing is translated so the enclosing circle is centered on the
// origin. Placement follows input order.
func packSiblings(circles []*circle) float64 {
	n := len(circles)
	if n == 0 {
		return 0
	}

	// First circle at the origin.
	a := circles[0]
	a.x, a.y = 0, 0
	if n == 1 {
		return a.r
	}

	// Second circle to the right of the first.
	b := circles[1]
	a.x = -b.r
	b.x = a.r
	b.y = 0
	if n == 2 {
		return a.r + b.r
	}

	// Third circle tangent to the first two.
	place(b, a, circles[2])

	// Initialize the front chain with the first three circles.
	an := &chainNode{c: a}
	bn := &chainNode{c: b}
	cn := &chainNode{c: circles[2]}
	an.next = bn
	cn.previous = bn
	bn.next = cn
	an.previous = cn
	cn.next = an
	bn.previous = an

pack:
	for i := 3; i < n; i++ {
		c := circles[i]
		place(an.c, bn.c, c)
		cn = &chainNode{c: c}

		// Walk outward from the insertion point in both directions looking
		// for the nearest front-chain circle the candidate overlaps.
		// Nearness is linear distance along the chain.
		j, k := bn.next, an.previous
		sj, sk := bn.c.r, an.c.r
		for {
			if sj <= sk {
				if intersects(j.c, c) {
					bn = j
					an.next = bn
					bn.previous = an
					i--
					continue pack
				}
				sj += j.c.r
				j = j.next
			} else {
				if intersects(k.c, c) {
					an = k
					an.next = bn
					bn.previous = an
					i--
					continue pack
				}
				sk += k.c.r
				k = k.previous
			}
			if j == k.next {
				break
			}
		}

		// No overlap: insert the candidate between an and bn.
		cn.previous = an
		cn.next = bn
		an.next = cn
		bn.previous = cn
		bn = cn

		// Advance to the chain edge closest to the origin.
		aa := score(an)
		for t := bn.next; t != bn; t = t.next {
			if ca := score(t); ca < aa {
				an, aa = t, ca
			}
		}
		bn = an.next
	}

	// Collect the front chain and compute its enclosing circle.
	front := []*circle{bn.c}
	for t := bn.next; t != bn; t = t.next {
		front = append(front, t.c)
	}
	e := enclose(front)

	// Center the packing on the origin.
	for _, c := range circles {
		c.x -= e.x
		c.y -= e.y
	}

	return e.r
}
