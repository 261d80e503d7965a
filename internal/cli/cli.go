// Package cli implements the coinboard subcommands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"coinboard/internal/app"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to the YAML configuration file")

// stdout is where commands print their reports.
var stdout io.Writer = os.Stdout

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&marketsCmd{}, "market")
	c.Register(&coinsCmd{}, "market")
	c.Register(&searchCmd{}, "market")
	c.Register(&coinCmd{}, "market")
	c.Register(&iconsCmd{}, "market")

	c.Register(&portfolioCmd{}, "portfolio")
	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")

	c.Register(&themeCmd{}, "preferences")
	c.Register(&statusCmd{}, "preferences")
	c.Register(&serveCmd{}, "feed")
}

// open initializes the application from the -config flag.
func open() (*app.Bootstrap, error) {
	b := app.NewBootstrap(*configPath)
	if err := b.Initialize(); err != nil {
		return nil, err
	}
	return b, nil
}

// fail reports err on stderr and returns the failure status.
func fail(format string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	return subcommands.ExitFailure
}

// usd formats an amount as US dollars, rounded to the cent.
func usd(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display()
}

// price formats a unit price. Prices below one dollar keep their significant digits.
func price(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1)) && !d.IsZero() {
		return "$" + d.String()
	}
	return usd(d)
}

// percent formats a 24h change with an explicit sign.
func percent(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		s = "+" + s
	}
	return s
}
