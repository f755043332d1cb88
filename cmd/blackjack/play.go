package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/sanity-io/litter"
)

// PlayCmd runs an interactive session on the terminal
type PlayCmd struct{}

func (cmd *PlayCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.newSession(ctx, globals.Player, globals.Seed, a.rounds)
	if err != nil {
		return err
	}

	p := &player{
		session: session,
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
		render:  newRenderer(os.Stdout),
		logger:  a.logger,
		debug:   globals.Debug,
	}
	return p.loop(ctx)
}

// player drives a session from line-based input
type player struct {
	session *blackjack.Session
	in      *bufio.Scanner
	out     io.Writer
	render  *renderer
	logger  *logging.Logger
	debug   bool
}

var errQuit = errors.New("quit")

func (p *player) loop(ctx context.Context) error {
	fmt.Fprintf(p.out, "Balance $%d. Each round costs $%d.\n", p.session.Balance(), p.session.Stakes().Minimum())

	for p.session.CanPlay() {
		if ctx.Err() != nil {
			return nil
		}
		err := p.playRound(ctx)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return err
		}

		again, err := p.confirm("Deal again? [Y/n] ")
		if err != nil || !again {
			break
		}
	}

	if !p.session.CanPlay() {
		fmt.Fprintf(p.out, "Your balance of $%d cannot cover another round. Thanks for playing!\n", p.session.Balance())
	} else {
		fmt.Fprintf(p.out, "Leaving the table with $%d.\n", p.session.Balance())
	}
	return nil
}

func (p *player) playRound(ctx context.Context) error {
	round, err := p.session.Deal(ctx)
	if err != nil {
		return err
	}

	p.render.SideBets(round.SideBets)
	for round.Phase == blackjack.PhasePlayer {
		snapshot := round.Snapshot()
		p.dump(snapshot)
		p.render.Snapshot(snapshot)
		p.render.Menu(snapshot.Available)
		fmt.Fprintln(p.out, "(h)it (s)tand (d)ouble s(p)lit, or q to quit")

		action, err := p.chooseAction(snapshot.Available)
		if errors.Is(err, errQuit) {
			// Leaving mid-round stands on every open hand so the stakes settle
			for round.Phase == blackjack.PhasePlayer {
				if err := p.session.Act(ctx, blackjack.ActionStand); err != nil {
					return err
				}
			}
			if _, err := p.session.Finish(ctx); err != nil && !types.IsGameError(err, types.ErrDatabaseError) {
				return err
			}
			return errQuit
		}
		if err != nil {
			return err
		}
		if err := p.session.Act(ctx, action); err != nil {
			if errors.Is(err, blackjack.ErrIllegalAction) || types.IsGameError(err, types.ErrIllegalAction) {
				fmt.Fprintf(p.out, "%s is not allowed right now.\n", action.Label())
				continue
			}
			return err
		}
	}

	result, err := p.session.Finish(ctx)
	if err != nil {
		// Round history is best effort; the bankroll is already settled
		if types.IsGameError(err, types.ErrDatabaseError) {
			p.logger.LogError(err)
		} else {
			return err
		}
		result = round.Result()
	}

	final := round.Snapshot()
	p.dump(final)
	p.render.Snapshot(final)
	p.render.Result(result, p.session.Balance())
	return nil
}

// chooseAction reads until the input names one of the available actions,
// by number or by name
func (p *player) chooseAction(available []blackjack.Action) (blackjack.Action, error) {
	for {
		line, err := p.prompt("> ")
		if err != nil {
			return "", err
		}
		if action, ok := matchAction(line, available); ok {
			return action, nil
		}
		fmt.Fprintln(p.out, "Please choose one of the listed actions, or q to quit.")
	}
}

var shortcuts = map[string]blackjack.Action{
	"h": blackjack.ActionHit,
	"s": blackjack.ActionStand,
	"d": blackjack.ActionDoubleDown,
	"p": blackjack.ActionSplit,
}

func matchAction(line string, available []blackjack.Action) (blackjack.Action, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(available) {
			return available[n-1], true
		}
		return "", false
	}

	action, ok := shortcuts[strings.ToLower(line)]
	if !ok {
		var err error
		if action, err = blackjack.ParseAction(line); err != nil {
			return "", false
		}
	}
	for _, a := range available {
		if a == action {
			return a, true
		}
	}
	return "", false
}

func (p *player) confirm(question string) (bool, error) {
	line, err := p.prompt(question)
	if err != nil {
		return false, err
	}
	return line == "" || strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

// prompt returns the next trimmed input line; q, quit and end of input end the session
func (p *player) prompt(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(p.in.Text())
	if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
		return "", errQuit
	}
	return line, nil
}

func (p *player) dump(snapshot blackjack.Snapshot) {
	if p.debug {
		p.logger.Debug("Snapshot:\n%s", litter.Sdump(snapshot))
	}
}
