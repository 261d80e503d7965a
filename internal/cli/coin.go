package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type coinCmd struct {
	history bool
}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "show one coin with its 30 day price history" }
func (*coinCmd) Usage() string {
	return `coinboard coin [-history] <coin id>

  Fetches the coin's detail and price history. Coin details are not cached.
`
}

func (c *coinCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.history, "history", false, "Print every price history point")
}

func (c *coinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one coin id is required.")
		return subcommands.ExitUsageError
	}

	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	d, err := b.Fetcher.CoinDetail(ctx, f.Arg(0))
	if err != nil {
		return fail("Error loading coin", err)
	}

	fmt.Fprintln(stdout, formatIdentity(d.CoinIdentity))
	fmt.Fprintf(stdout, "  Price      : %s (%s)\n", price(d.CurrentPrice), percent(d.PriceChangePct24h))
	fmt.Fprintf(stdout, "  Market cap : %s\n", usd(d.MarketCap))

	if n := len(d.History); n > 0 {
		lo, hi := d.History[0].Price, d.History[0].Price
		for _, p := range d.History {
			lo = decimal.Min(lo, p.Price)
			hi = decimal.Max(hi, p.Price)
		}
		fmt.Fprintf(stdout, "  30d range  : %s - %s (%d points)\n", price(lo), price(hi), n)
	}
	if d.Description != "" {
		fmt.Fprintf(stdout, "\n%s\n", d.Description)
	}

	if c.history {
		fmt.Fprintln(stdout)
		for _, p := range d.History {
			fmt.Fprintf(stdout, "%s  %s\n", p.Time.Local().Format("2006-01-02 15:04"), price(p.Price))
		}
	}
	return subcommands.ExitSuccess
}
