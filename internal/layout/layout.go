package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// ErrInvalidInput reports malformed layout parameters. Malformed input is a
// programming error on the caller's side, never a recoverable condition.
var ErrInvalidInput = errors.New("layout: invalid input")

// minWeight is the floor applied to non-positive market caps so every coin
// stays visible. Weights are USD market caps, so 1 is far below any real
// asset and degenerates to equal radii when all weights are clamped.
const minWeight = 1

// Node is one placed circle. X and Y are center coordinates in canvas space,
// R the radius. The referenced Coin is shared with the caller, never mutated.
type Node struct {
	Coin model.Coin `json:"coin"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	R    float64    `json:"r"`
}

// Pack lays out coins as non-overlapping circles inside a width x height
// canvas. Circle area is proportional to market cap, adjacent boundaries are
// separated by at least padding, and the packing is centered on the canvas.
//
// Placement order is descending market cap with input order breaking ties, so
// identical input always produces an identical layout. Duplicate coin IDs are
// dropped, first seen wins.
func Pack(coins []model.Coin, width, height, padding float64) ([]Node, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %gx%g", ErrInvalidInput, width, height)
	}
	if padding < 0 {
		return nil, fmt.Errorf("%w: padding %g", ErrInvalidInput, padding)
	}
	if len(coins) == 0 {
		return []Node{}, nil
	}

	ordered := dedupeAndSort(coins)

	circles := make([]*circle, len(ordered))
	for i, coin := range ordered {
		w := coin.MarketCap
		if w < minWeight {
			w = minWeight
		}
		circles[i] = &circle{r: math.Sqrt(w)}
	}

	// First pass without padding establishes the scale between weight space
	// and canvas space.
	enclosingR := packSiblings(circles)

	extent := math.Min(width, height)
	if padding > 0 {
		// Repack with radii inflated by the padding translated into weight
		// space. Positions keep the inflation; radii are restored after, so
		// tangent circles end up separated by padding once scaled. The
		// inflation depends on the enclosing radius it produces, so iterate
		// to the fixed point where the scaled separation equals padding.
		inflate := padding * enclosingR / extent
		for iter := 0; iter < 16; iter++ {
			for _, c := range circles {
				c.r += inflate
			}
			enclosingR = packSiblings(circles) + inflate
			for _, c := range circles {
				c.r -= inflate
			}

			next := padding * enclosingR / extent
			if next <= inflate*(1+1e-9) {
				break
			}
			inflate = next
		}
	}

	// Scale the packing into the canvas, preserving relative sizes exactly.
	k := extent / (2 * enclosingR)
	nodes := make([]Node, len(ordered))
	for i, c := range circles {
		nodes[i] = Node{
			Coin: ordered[i],
			X:    width/2 + k*c.x,
			Y:    height/2 + k*c.y,
			R:    k * c.r,
		}
	}

	return nodes, nil
}

// dedupeAndSort drops duplicate IDs (first seen wins) and orders by
// descending market cap, stable so ties keep input order.
func dedupeAndSort(coins []model.Coin) []model.Coin {
	seen := make(map[string]struct{}, len(coins))
	ordered := make([]model.Coin, 0, len(coins))
	for _, c := range coins {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		ordered = append(ordered, c)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MarketCap > ordered[j].MarketCap
	})

	return ordered
}
