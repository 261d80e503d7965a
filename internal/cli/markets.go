package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"coinboard/internal/service"

	"github.com/google/subcommands"
)

type marketsCmd struct {
	limit int
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "show the market snapshot" }
func (*marketsCmd) Usage() string {
	return `coinboard markets [-n <count>]

  Shows the tracked coins ordered by market cap. The snapshot is served from
  the local cache while it is fresh; when a refetch fails the last cached
  snapshot is shown with a notice.
`
}

func (c *marketsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Number of coins to show (0 for all)")
}

func (c *marketsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	res, err := b.Markets(ctx)
	if err != nil {
		return fail("Error loading markets", err)
	}
	printFreshness(res.Status, res.StoredAt.Local().Format("2006-01-02 15:04:05"))

	coins := res.Data
	if c.limit > 0 && len(coins) > c.limit {
		coins = coins[:c.limit]
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tCoin\tSymbol\tPrice\t24h\tMarket cap\t")
	for i, coin := range coins {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s %s\t%s\t\n", i+1, coin.Name, coin.Symbol,
			price(coin.CurrentPrice), arrows[coin.ChangeDirection()], percent(coin.PriceChangePct24h), usd(coin.MarketCap))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

var arrows = map[string]string{"positive": "▲", "negative": "▼", "neutral": " "}

func printFreshness(status service.Status, storedAt string) {
	if status == service.StatusDegraded {
		fmt.Fprintf(stdout, "Using cached data from %s, the latest refresh failed.\n\n", storedAt)
	}
}
