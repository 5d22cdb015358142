// Package layout implements the circle-packing engine for the bubble chart.
//
// The packer:
//   - Sizes each circle so area is proportional to market cap
//   - Places circles with a front-chain packing heuristic (Wang et al.,
//     "Visualization of large hierarchical data by circle packing", 2006)
//   - Computes the smallest enclosing circle (Welzl's algorithm extended to
//     circles, with a fixed-seed shuffle so results are reproducible)
//   - Scales and centers the result to fit the target canvas
//
// Pack is pure and synchronous: no I/O, no shared state, deterministic for
// identical input.
package layout
