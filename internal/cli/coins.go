package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"coinboard/internal/domain"
	"coinboard/internal/service"

	"github.com/google/subcommands"
)

type coinsCmd struct{}

func (*coinsCmd) Name() string     { return "coins" }
func (*coinsCmd) Synopsis() string { return "refresh and summarize the coin identifier list" }
func (*coinsCmd) Usage() string {
	return `coinboard coins

  Loads the full coin identifier list used for autocomplete and prints how
  many coins it holds and how old it is.
`
}

func (*coinsCmd) SetFlags(*flag.FlagSet) {}

func (*coinsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	ix, res, err := b.LoadIndex(ctx)
	if err != nil {
		return fail("Error loading coin list", err)
	}
	storedAt := res.StoredAt.Local().Format("2006-01-02 15:04:05")
	printFreshness(res.Status, storedAt)

	source := "network"
	if res.FromCache {
		source = "cache"
	}
	fmt.Fprintf(stdout, "%d coins (%s, fetched %s)\n", ix.Len(), source, storedAt)
	return subcommands.ExitSuccess
}

type searchCmd struct {
	limit int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "suggest coins matching a name or symbol" }
func (*searchCmd) Usage() string {
	return `coinboard search [-n <count>] <text>

  Prints the coins whose name or symbol contains the text, ignoring case, in
  coin list order.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", service.DefaultQueryLimit, "Maximum number of suggestions")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: search text is required.")
		return subcommands.ExitUsageError
	}
	text := strings.Join(f.Args(), " ")

	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	ix, _, err := b.LoadIndex(ctx)
	if err != nil {
		return fail("Error loading coin list", err)
	}

	matches := ix.Query(text, c.limit)
	if len(matches) == 0 {
		fmt.Fprintf(stdout, "No coins match '%s'.\n", text)
		return subcommands.ExitSuccess
	}
	for _, m := range matches {
		fmt.Fprintln(stdout, formatIdentity(m))
	}
	return subcommands.ExitSuccess
}

func formatIdentity(c domain.CoinIdentity) string {
	return fmt.Sprintf("%s (%s) [%s]", c.Name, strings.ToUpper(c.Symbol), c.ID)
}
