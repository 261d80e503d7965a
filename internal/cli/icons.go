package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type iconsCmd struct{}

func (*iconsCmd) Name() string     { return "icons" }
func (*iconsCmd) Synopsis() string { return "download the icons of the tracked coins" }
func (*iconsCmd) Usage() string {
	return `coinboard icons

  Downloads and resizes the icon of every coin in the market snapshot into the
  configured icons directory. Icons already on disk are kept.
`
}

func (*iconsCmd) SetFlags(*flag.FlagSet) {}

func (*iconsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	res, err := b.Markets(ctx)
	if err != nil {
		return fail("Error loading markets", err)
	}

	n, err := b.SyncIcons(ctx, res.Data)
	if err != nil {
		return fail("Error syncing icons", err)
	}
	fmt.Fprintf(stdout, "%d of %d icons available\n", n, len(res.Data))
	return subcommands.ExitSuccess
}
