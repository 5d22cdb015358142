package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kzhou/cryptobubbles/internal/layout"
)

const (
	fillUp       = "#16c784"
	fillDown     = "#ea3943"
	strokeFav    = "#f0b90b"
	labelColor   = "#ffffff"
	canvasColor  = "#0d1117"
	strokeWidth  = 3.0
	minLabelSize = 6.0
)

// renderSVG draws the packed layout as a standalone SVG document. Favorited
// symbols get a highlight ring.
func renderSVG(nodes []layout.Node, width, height float64, isFavorite func(symbol string) bool) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", canvasColor)

	for _, n := range nodes {
		fill := fillUp
		if n.Coin.Change24h < 0 {
			fill = fillDown
		}

		stroke := ""
		if isFavorite != nil && isFavorite(n.Coin.Symbol) {
			stroke = fmt.Sprintf(` stroke="%s" stroke-width="%g"`, strokeFav, strokeWidth)
		}

		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.85"%s/>`+"\n",
			n.X, n.Y, n.R, fill, stroke)

		// Labels only where they fit.
		symSize := n.R * 0.45
		if symSize < minLabelSize {
			continue
		}
		fmt.Fprintf(&b, `  <text x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-family="sans-serif" font-size="%.1f" font-weight="bold">%s</text>`+"\n",
			n.X, n.Y, labelColor, symSize, escapeText(strings.ToUpper(n.Coin.Symbol)))

		pctSize := n.R * 0.28
		if pctSize < minLabelSize {
			continue
		}
		fmt.Fprintf(&b, `  <text x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-family="sans-serif" font-size="%.1f">%+.1f%%</text>`+"\n",
			n.X, n.Y+symSize, labelColor, pctSize, n.Coin.Change24h)
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
