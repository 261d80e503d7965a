package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type themeCmd struct{}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show or change the dark mode preference" }
func (*themeCmd) Usage() string {
	return `coinboard theme [dark|light|toggle]

  Without an argument prints the current theme.
`
}

func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (*themeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one argument is allowed.")
		return subcommands.ExitUsageError
	}

	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	prefs := b.Preferences
	switch f.Arg(0) {
	case "":
	case "dark":
		prefs.SetDarkMode(true)
	case "light":
		prefs.SetDarkMode(false)
	case "toggle":
		prefs.ToggleDarkMode()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	if prefs.DarkMode() {
		fmt.Fprintln(stdout, "dark")
	} else {
		fmt.Fprintln(stdout, "light")
	}
	return subcommands.ExitSuccess
}
