package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"coinboard/internal/service"

	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show storage and cache state" }
func (*statusCmd) Usage() string {
	return `coinboard status

  Prints where data is stored, the stored keys and the age of each cached
  data set. Makes no network requests.
`
}

func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	if b.Storage == nil {
		fmt.Fprintln(stdout, "Storage : memory-only (nothing is kept after exit)")
	} else {
		keys, err := b.Storage.Keys()
		if err != nil {
			return fail("Error listing keys", err)
		}
		fmt.Fprintf(stdout, "Storage : durable, %d keys\n", len(keys))
		fmt.Fprintf(stdout, "Keys    : %s\n", strings.Join(keys, ", "))
	}

	now := time.Now()
	for _, set := range []struct {
		key string
		ttl time.Duration
	}{
		{service.KeyMarkets, b.Config.MarketsTTL()},
		{service.KeyCoinList, b.Config.CoinListTTL()},
	} {
		e, ok := b.Cache.ReadAny(set.key)
		if !ok {
			fmt.Fprintf(stdout, "%-10s: never fetched\n", set.key)
			continue
		}
		state := "fresh"
		if e.Age(now) >= set.ttl {
			state = "stale"
		}
		fmt.Fprintf(stdout, "%-10s: %s, fetched %s ago (ttl %s)\n",
			set.key, state, e.Age(now).Round(time.Second), set.ttl)
	}
	return subcommands.ExitSuccess
}
