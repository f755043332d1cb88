package main

import (
	"github.com/alecthomas/kong"
)

// Globals are flags shared by every command
type Globals struct {
	Debug  bool   `help:"Enable debug logging and state dumps"`
	Player string `short:"p" default:"player" help:"Player ID whose bankroll is used"`
	Seed   int64  `help:"Shuffle seed (0 = time-seeded)"`
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"1" help:"Play blackjack interactively"`
	Simulate SimulateCmd `cmd:"" help:"Auto-play sessions in parallel and report aggregates"`
	History  HistoryCmd  `cmd:"" help:"Show recent rounds and statistics for a player"`
	Deposit  DepositCmd  `cmd:"" help:"Add funds to a player's bankroll"`
	Migrate  MigrateCmd  `cmd:"" help:"Inspect or apply database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-table blackjack with Perfect Pairs and 21+3 side bets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
