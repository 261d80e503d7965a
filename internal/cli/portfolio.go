package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"coinboard/internal/domain"

	"github.com/google/subcommands"
)

type portfolioCmd struct {
	offline bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "list holdings and their value" }
func (*portfolioCmd) Usage() string {
	return `coinboard portfolio [-offline]

  Lists the saved holdings in insertion order, valued with the market
  snapshot. Coins missing from the snapshot are shown unpriced and do not
  count towards the total.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "List holdings without loading prices")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	entries := b.Portfolio.List()
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "Your portfolio is empty. Add holdings with 'coinboard add <coin> <amount>'.")
		return subcommands.ExitSuccess
	}

	var snapshot domain.MarketSnapshot
	if !c.offline {
		res, err := b.Markets(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: prices unavailable: %v\n", err)
		} else {
			printFreshness(res.Status, res.StoredAt.Local().Format("2006-01-02 15:04:05"))
			snapshot = res.Data
		}
	}

	v := b.Portfolio.Valuate(snapshot)
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tCoin\tAmount\tPrice\tValue\t")
	for i, h := range v.Holdings {
		priceCol, valueCol := "-", "-"
		if h.Priced {
			priceCol, valueCol = price(h.Price), usd(h.Value)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", i, h.Entry.DisplayName,
			strconv.FormatFloat(h.Entry.Amount, 'f', -1, 64), priceCol, valueCol)
	}
	fmt.Fprintf(w, "\tTotal\t\t\t%s\t\n", usd(v.Total))
	w.Flush()
	return subcommands.ExitSuccess
}

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding to the portfolio" }
func (*addCmd) Usage() string {
	return `coinboard add <coin> <amount>

  Adds a holding. The coin is the exact name or symbol of a coin in the coin
  list (case is ignored); use 'coinboard search' to find it. The amount must
  be a positive number. Adding the same coin twice keeps two rows.
`
}

func (*addCmd) SetFlags(*flag.FlagSet) {}

func (*addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a coin and an amount are required.")
		return subcommands.ExitUsageError
	}
	amount, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}

	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	// Without a coin list the portfolio rejects every coin; report why.
	if _, _, err := b.LoadIndex(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: coin list unavailable: %v\n", err)
	}

	entry, err := b.Portfolio.Add(f.Arg(0), amount)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCoin) {
			fmt.Fprintf(os.Stderr, "Error: %q is not a known coin name or symbol.\n", f.Arg(0))
			return subcommands.ExitFailure
		}
		return fail("Error adding holding", err)
	}
	fmt.Fprintf(stdout, "Added %s %s\n", strconv.FormatFloat(entry.Amount, 'f', -1, 64), entry.DisplayName)
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding by its position" }
func (*removeCmd) Usage() string {
	return `coinboard remove <index>

  Removes the holding at the given position, as numbered by
  'coinboard portfolio'. Later holdings move up by one.
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: an index is required.")
		return subcommands.ExitUsageError
	}
	index, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	entry, err := b.Portfolio.RemoveAt(index)
	if err != nil {
		return fail("Error removing holding", err)
	}
	fmt.Fprintf(stdout, "Removed %s %s\n", strconv.FormatFloat(entry.Amount, 'f', -1, 64), entry.DisplayName)
	return subcommands.ExitSuccess
}
