package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// HistoryCmd prints a player's statistics and latest rounds
type HistoryCmd struct {
	Limit        int  `short:"n" default:"10" help:"Number of rounds to show"`
	Transactions bool `short:"t" help:"Also list recent bankroll transactions"`
}

func (cmd *HistoryCmd) Run(globals *Globals) error {
	ctx := context.Background()
	a, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.stats.Summary(ctx, globals.Player, cmd.Limit)
	if err != nil {
		return err
	}
	balance, err := a.bankrolls.GetBalance(ctx, globals.Player)
	if err != nil {
		a.logger.Debug("No bankroll for %s: %v", globals.Player, err)
		balance = a.cfg.StartingBalance
	}

	r := newRenderer(os.Stdout)
	fmt.Printf("%s\n", r.styles.Header.Render(globals.Player))
	fmt.Printf("Balance: $%d\n", balance)
	fmt.Printf("Rounds: %d  Hands: %d  Win rate: %.1f%%  Net: %+d\n",
		summary.RoundsPlayed, summary.HandsPlayed, summary.WinRate, summary.NetProfit)
	fmt.Printf("Blackjacks: %d  Busts: %d  Splits: %d  Doubles: %d  Side bet wins: %d\n",
		summary.Blackjacks, summary.Busts, summary.Splits, summary.DoubleDowns, summary.SideBetWins)
	if summary.RoundsPlayed > 0 {
		fmt.Printf("Best round: %+d  Worst round: %+d  Average: %+.2f\n",
			summary.BiggestWin, summary.BiggestLoss, summary.AverageNet)
	}

	if len(summary.RecentRounds) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tHANDS\tDEALER\tNET\tBALANCE")
		for _, round := range summary.RecentRounds {
			hands := make([]string, len(round.Hands))
			for i, h := range round.Hands {
				hands[i] = fmt.Sprintf("%s (%d) %s", r.cards(h.Cards), h.FinalScore, h.Outcome)
			}
			fmt.Fprintf(w, "%s\t%s\t%s (%d)\t%+d\t%d\n",
				round.CompletedAt.Local().Format("2006-01-02 15:04"),
				strings.Join(hands, " | "),
				r.cards(round.DealerCards), round.DealerScore,
				round.Net(), round.BalanceEnd)
		}
		w.Flush()
	}

	if cmd.Transactions {
		txs, err := a.bankrolls.GetRecentTransactions(ctx, globals.Player, cmd.Limit)
		if err != nil {
			return err
		}
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%+d\t%d\t%s\n", tx.Timestamp.Local().Format("2006-01-02 15:04:05"),
				tx.Type, tx.Amount, tx.BalanceAfter, tx.Description)
		}
		w.Flush()
	}
	return nil
}

// DepositCmd tops up a player's bankroll
type DepositCmd struct {
	Amount int64 `arg:"" help:"Amount to add"`
}

func (cmd *DepositCmd) Run(globals *Globals) error {
	ctx := context.Background()
	a, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	defer a.Close()

	bankroll, err := a.bankrolls.Deposit(ctx, globals.Player, cmd.Amount)
	if err != nil {
		return err
	}
	fmt.Printf("Deposited $%d, balance is now $%d\n", cmd.Amount, bankroll.Balance)
	return nil
}
