package main

import (
	"strings"
	"testing"

	"github.com/kzhou/cryptobubbles/internal/layout"
	"github.com/kzhou/cryptobubbles/internal/model"
)

func TestRenderSVG(t *testing.T) {
	nodes := []layout.Node{
		{Coin: model.Coin{Symbol: "btc", Change24h: 2.5}, X: 200, Y: 150, R: 100},
		{Coin: model.Coin{Symbol: "eth", Change24h: -1.2}, X: 350, Y: 150, R: 50},
	}
	isFav := func(symbol string) bool { return symbol == "btc" }

	svg := string(renderSVG(nodes, 400, 300, isFav))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Fatal("output is not a complete SVG document")
	}
	if !strings.Contains(svg, fillUp) {
		t.Error("positive change should use the up color")
	}
	if !strings.Contains(svg, fillDown) {
		t.Error("negative change should use the down color")
	}
	if !strings.Contains(svg, strokeFav) {
		t.Error("favorite coin should carry the highlight stroke")
	}
	if !strings.Contains(svg, ">BTC<") {
		t.Error("symbol label should be upper-cased")
	}
	if !strings.Contains(svg, "+2.5%") || !strings.Contains(svg, "-1.2%") {
		t.Error("percentage labels missing")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("rendered %d circles, want 2", got)
	}
}

func TestRenderSVGTinyBubbleSkipsLabel(t *testing.T) {
	nodes := []layout.Node{
		{Coin: model.Coin{Symbol: "shib", Change24h: 0.1}, X: 10, Y: 10, R: 5},
	}

	svg := string(renderSVG(nodes, 100, 100, nil))
	if strings.Contains(svg, "<text") {
		t.Error("labels should be skipped when the bubble is too small")
	}
}

func TestSplitFavorite(t *testing.T) {
	tests := []struct {
		in, symbol, name string
	}{
		{"BTC=Bitcoin", "BTC", "Bitcoin"},
		{"ETH", "ETH", "ETH"},
		{"SOL=", "SOL", ""},
	}
	for _, tt := range tests {
		symbol, name := splitFavorite(tt.in)
		if symbol != tt.symbol || name != tt.name {
			t.Errorf("splitFavorite(%q) = (%q, %q), want (%q, %q)", tt.in, symbol, name, tt.symbol, tt.name)
		}
	}
}
