package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kzhou/cryptobubbles/internal/api"
	"github.com/kzhou/cryptobubbles/internal/config"
	"github.com/kzhou/cryptobubbles/internal/favorites"
	"github.com/kzhou/cryptobubbles/internal/layout"
	"github.com/kzhou/cryptobubbles/internal/version"
)

func main() {
	var (
		out       = flag.String("out", "bubbles.svg", "output SVG path (- for stdout)")
		width     = flag.Float64("width", config.DefaultLayoutWidth, "canvas width")
		height    = flag.Float64("height", config.DefaultLayoutHeight, "canvas height")
		padding   = flag.Float64("padding", config.DefaultLayoutPadding, "padding between bubbles")
		currency  = flag.String("currency", "usd", "quote currency")
		limit     = flag.Int("limit", 100, "number of coins")
		apiURL    = flag.String("api-url", config.DefaultRestURL, "market data API base URL")
		remote    = flag.String("remote", "", "favorites API base URL (empty = local only)")
		favPath   = flag.String("favorites", config.DefaultLocalPath, "local favorites file")
		favAdd    = flag.String("add", "", "add favorite as SYMBOL=Name and exit")
		favRemove = flag.String("remove", "", "remove favorite by symbol and exit")
		favList   = flag.Bool("list", false, "list favorites and exit")
		verbose   = flag.Bool("v", false, "debug logging")
		showVer   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var remoteSvc favorites.Service
	if *remote != "" {
		remoteSvc = favorites.NewHTTPClient(*remote)
	}
	store := favorites.NewStore(favorites.NewLocalFile(*favPath), remoteSvc, logger)
	if err := store.Load(ctx); err != nil {
		logger.Error("loading favorites", "error", err)
		os.Exit(1)
	}
	defer store.Wait()

	switch {
	case *favAdd != "":
		symbol, name := splitFavorite(*favAdd)
		if err := store.Add(ctx, symbol, name); err != nil {
			logger.Error("adding favorite", "symbol", symbol, "error", err)
			os.Exit(1)
		}
		fmt.Printf("added %s\n", symbol)
		return
	case *favRemove != "":
		if err := store.Remove(ctx, *favRemove); err != nil {
			logger.Error("removing favorite", "symbol", *favRemove, "error", err)
			os.Exit(1)
		}
		fmt.Printf("removed %s\n", *favRemove)
		return
	case *favList:
		for _, f := range store.Favorites() {
			fmt.Printf("%s\t%s\t%s\n", f.Symbol, f.Name, f.AddedAt.Format(time.RFC3339))
		}
		return
	}

	client := api.NewClient(*apiURL, os.Getenv("COINGECKO_API_KEY"),
		api.WithLogger(logger),
		api.WithRetries(3, time.Second),
	)
	coins, err := client.GetCoins(ctx, api.GetCoinMarketsOptions{
		VsCurrency: *currency,
		PerPage:    *limit,
	})
	if err != nil {
		logger.Error("fetching market data", "error", err)
		os.Exit(1)
	}

	nodes, err := layout.Pack(coins, *width, *height, *padding)
	if err != nil {
		logger.Error("packing layout", "error", err)
		os.Exit(1)
	}

	svg := renderSVG(nodes, *width, *height, store.IsFavorite)

	if *out == "-" {
		os.Stdout.Write(svg)
		return
	}
	if err := os.WriteFile(*out, svg, 0o644); err != nil {
		logger.Error("writing output", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bubbles)\n", *out, len(nodes))
}

// splitFavorite parses SYMBOL=Name, defaulting the name to the symbol.
func splitFavorite(arg string) (symbol, name string) {
	for i := 0; i < len(arg); i++ {
		if arg[i] == '=' {
			return arg[:i], arg[i+1:]
		}
	}
	return arg, arg
}
