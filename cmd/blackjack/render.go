package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
)

// tableStyles contains styling for the table display
type tableStyles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Hidden    lipgloss.Style
	Active    lipgloss.Style
	Win       lipgloss.Style
	Loss      lipgloss.Style
	Money     lipgloss.Style
	Separator lipgloss.Style
}

func newTableStyles() *tableStyles {
	return &tableStyles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1E7B46")).
			Padding(0, 2).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD")).
			Bold(true),
		Hidden: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Bold(true),
		Win: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Loss: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		Money: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// renderer draws round snapshots and results as text
type renderer struct {
	w      io.Writer
	styles *tableStyles
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, styles: newTableStyles()}
}

// card colors a card label by its suit; labels that don't parse are printed as is
func (r *renderer) card(label string) string {
	c, err := entities.ParseCard(label)
	if err != nil {
		return label
	}
	if c.Suit.Color() == entities.Red {
		return r.styles.CardRed.Render(label)
	}
	return r.styles.CardBlack.Render(label)
}

func (r *renderer) cards(labels []string) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = r.card(label)
	}
	return strings.Join(parts, " ")
}

func totalLabel(total int, soft bool) string {
	if soft && total <= blackjack.Blackjack {
		return fmt.Sprintf("soft %d", total)
	}
	return fmt.Sprintf("%d", total)
}

// Snapshot prints the table as the player sees it
func (r *renderer) Snapshot(s blackjack.Snapshot) {
	fmt.Fprintln(r.w, r.styles.Separator.Render(strings.Repeat("─", 40)))

	dealer := r.cards(s.Dealer.Cards)
	if s.Dealer.Concealed {
		dealer += " " + r.styles.Hidden.Render("??")
	}
	fmt.Fprintf(r.w, "%s %s (%d)\n", r.styles.Label.Render("Dealer:"), dealer, s.Dealer.Total)

	for _, hand := range s.Hands {
		label := "You:"
		if len(s.Hands) > 1 {
			label = fmt.Sprintf("Hand %d:", hand.Index+1)
		}
		line := fmt.Sprintf("%s %s (%s) bet %s", r.styles.Label.Render(label), r.cards(hand.Cards),
			totalLabel(hand.Total, hand.Soft), r.styles.Money.Render(fmt.Sprintf("$%d", hand.Wager)))
		switch {
		case hand.Bust:
			line += " " + r.styles.Loss.Render("BUST")
		case hand.Index == s.ActiveHand:
			line += " " + r.styles.Active.Render("◀")
		}
		if hand.Doubled {
			line += " (doubled)"
		}
		fmt.Fprintln(r.w, line)
	}

	fmt.Fprintf(r.w, "%s %s\n", r.styles.Label.Render("Balance:"), r.styles.Money.Render(fmt.Sprintf("$%d", s.Balance)))
}

// SideBets prints the side bet results from the deal
func (r *renderer) SideBets(results []blackjack.SideBetResult) {
	for _, sb := range results {
		if sb.Won() {
			fmt.Fprintf(r.w, "%s %s pays %s\n", sideBetName(sb.Bet), sb.Kind,
				r.styles.Win.Render(fmt.Sprintf("$%d", sb.Payout)))
		} else {
			fmt.Fprintf(r.w, "%s %s\n", sideBetName(sb.Bet), r.styles.Loss.Render("loses"))
		}
	}
}

// Menu lists the available actions with their shortcut numbers
func (r *renderer) Menu(actions []blackjack.Action) {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, a.Label())
	}
	fmt.Fprintln(r.w, r.styles.Active.Render(strings.Join(parts, "  ")))
}

// Result prints the outcome of every hand and the round's net
func (r *renderer) Result(result *blackjack.Result, balance int64) {
	for _, s := range result.Hands {
		line := fmt.Sprintf("Hand %d: %s", s.HandIndex+1, s.Outcome)
		switch {
		case s.WagerDelta > 0:
			line = r.styles.Win.Render(fmt.Sprintf("%s +$%d", line, s.WagerDelta))
		case s.WagerDelta < 0:
			line = r.styles.Loss.Render(fmt.Sprintf("%s -$%d", line, -s.WagerDelta))
		}
		fmt.Fprintln(r.w, line)
	}

	net := result.Net()
	netLabel := fmt.Sprintf("%+d", net)
	if net >= 0 {
		netLabel = r.styles.Win.Render(netLabel)
	} else {
		netLabel = r.styles.Loss.Render(netLabel)
	}
	fmt.Fprintf(r.w, "Round net %s, balance %s\n", netLabel, r.styles.Money.Render(fmt.Sprintf("$%d", balance)))
}

func sideBetName(bet blackjack.SideBet) string {
	switch bet {
	case blackjack.SideBetPerfectPairs:
		return "Perfect Pairs"
	case blackjack.SideBetTwentyOnePlusThree:
		return "21+3"
	}
	return string(bet)
}
