package blackjack

import (
	"errors"
	"fmt"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
)

var (
	ErrIllegalAction = errors.New("action not available")
	ErrRoundNotReady = errors.New("round is not ready for this step")
	ErrRoundSettled  = errors.New("round already settled")
)

// Phase is the stage a round is in
type Phase string

const (
	PhasePlayer     Phase = "PLAYER"     // Player decisions pending
	PhaseDealer     Phase = "DEALER"     // Waiting for the dealer to play
	PhaseSettlement Phase = "SETTLEMENT" // Dealer finished, wagers not yet paid
	PhaseSettled    Phase = "SETTLED"
)

// Seat pairs a player hand with its wager. A round keeps its seats in one
// ordered slice so every hand always has exactly one wager.
type Seat struct {
	Hand      *Hand
	Wager     int64
	Doubled   bool
	FromSplit bool
	Actions   []Action
}

// Settlement is the result of paying one seat
type Settlement struct {
	HandIndex  int
	Outcome    entities.Outcome
	Ratio      Ratio
	Wager      int64
	Payout     int64 // Amount credited to the bankroll
	WagerDelta int64 // Payout minus wager
}

// Result is everything paid out in a round
type Result struct {
	Hands    []Settlement
	SideBets []SideBetResult
}

// Net is the round's total gain or loss across hands and side bets
func (r *Result) Net() int64 {
	var net int64
	for _, s := range r.Hands {
		net += s.WagerDelta
	}
	for _, sb := range r.SideBets {
		net += sb.Payout - sb.Stake
	}
	return net
}

// Round runs a single hand of blackjack for one player against the dealer
type Round struct {
	ID           string
	Phase        Phase
	Seats        []*Seat
	Dealer       *Hand
	Stakes       Stakes
	SideBets     []SideBetResult
	Settlements  []Settlement
	DealerPlayed bool

	shoe     *entities.Shoe
	bankroll *entities.Bankroll
	logger   *logging.Logger
}

// RoundOption customizes a round before the deal
type RoundOption func(*Round)

// WithLogger sets the logger used by the round
func WithLogger(logger *logging.Logger) RoundOption {
	return func(r *Round) {
		r.logger = logger
	}
}

// WithRoundID overrides the generated round ID
func WithRoundID(id string) RoundOption {
	return func(r *Round) {
		r.ID = id
	}
}

// StartRound takes the stakes from the bankroll, deals two cards each to the
// player and the dealer, and settles the side bets on the opening cards.
func StartRound(bankroll *entities.Bankroll, shoe *entities.Shoe, stakes Stakes, opts ...RoundOption) (*Round, error) {
	if bankroll == nil || shoe == nil {
		return nil, types.NewGameError(types.ErrInvalidArgument, "round needs a bankroll and a shoe")
	}
	if err := stakes.Validate(); err != nil {
		return nil, types.WrapError(types.ErrInvalidArgument, "invalid stakes", err)
	}
	if !bankroll.CanCover(stakes.Minimum()) {
		return nil, types.WrapError(types.ErrInsufficientBankroll,
			fmt.Sprintf("balance %d is below the minimum stake of %d", bankroll.Balance, stakes.Minimum()),
			entities.ErrInsufficientBankroll)
	}
	if shoe.Remaining() < 4 {
		return nil, types.WrapError(types.ErrEmptyShoe, "not enough cards to deal", entities.ErrEmptyShoe)
	}

	r := &Round{
		ID:       uuid.New().String(),
		Phase:    PhasePlayer,
		Dealer:   NewHand(RoleDealer),
		Stakes:   stakes,
		shoe:     shoe,
		bankroll: bankroll,
		logger:   logging.Default,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.placeStakes(); err != nil {
		return nil, err
	}

	player := NewHand(RolePlayer)
	r.Seats = []*Seat{{Hand: player, Wager: stakes.Base}}

	// Player, dealer, player, dealer
	for i := 0; i < 2; i++ {
		if err := r.dealTo(player); err != nil {
			return nil, err
		}
		if err := r.dealTo(r.Dealer); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("Round %s dealt: player %v (%d), dealer up card %s",
		r.ID, player.CardStrings(), player.Value(), r.Dealer.UpCard())

	if err := r.settleSideBets(); err != nil {
		return nil, err
	}

	if player.Value() == Blackjack {
		player.Active = false
		r.logger.Debug("Round %s: player has a natural", r.ID)
	}
	r.advance()

	return r, nil
}

func (r *Round) placeStakes() error {
	stakes := []struct {
		amount int64
		txType entities.TransactionType
		desc   string
	}{
		{r.Stakes.Base, entities.TransactionTypeWager, "Blackjack bet"},
		{r.Stakes.PerfectPairs, entities.TransactionTypeSideBet, "Perfect Pairs bet"},
		{r.Stakes.TwentyOnePlusThree, entities.TransactionTypeSideBet, "21+3 bet"},
	}
	for _, s := range stakes {
		if s.amount == 0 {
			continue
		}
		if err := r.bankroll.Debit(s.amount, s.txType, r.ID, s.desc); err != nil {
			return types.WrapError(types.ErrInsufficientBankroll, "cannot place "+s.desc, err)
		}
	}
	return nil
}

func (r *Round) settleSideBets() error {
	player := r.Seats[0].Hand
	first, second := player.Cards[0], player.Cards[1]

	ppKind, ppRatio := EvaluatePerfectPairs(first, second)
	tptKind, tptRatio := EvaluateTwentyOnePlusThree(first, second, r.Dealer.UpCard())

	bets := []SideBetResult{
		{Bet: SideBetPerfectPairs, Kind: ppKind, Ratio: ppRatio, Stake: r.Stakes.PerfectPairs},
		{Bet: SideBetTwentyOnePlusThree, Kind: tptKind, Ratio: tptRatio, Stake: r.Stakes.TwentyOnePlusThree},
	}

	for i := range bets {
		if bets[i].Stake == 0 {
			bets[i].Kind, bets[i].Ratio = KindNone, RatioLose
			continue
		}
		bets[i].Payout = bets[i].Ratio.Apply(bets[i].Stake)
		if bets[i].Payout > 0 {
			desc := fmt.Sprintf("%s %s winnings", bets[i].Bet, bets[i].Kind)
			if err := r.bankroll.Credit(bets[i].Payout, entities.TransactionTypeSideBetPayout, r.ID, desc); err != nil {
				return types.WrapError(types.ErrInternalError, "cannot pay side bet", err)
			}
			r.logger.Debug("Round %s: %s pays %d on %s", r.ID, bets[i].Bet, bets[i].Payout, bets[i].Kind)
		}
	}

	r.SideBets = bets
	return nil
}

// ActiveHandIndex returns the leftmost hand still acting, or -1
func (r *Round) ActiveHandIndex() int {
	if r.Phase != PhasePlayer {
		return -1
	}
	for i, seat := range r.Seats {
		if seat.Hand.Active {
			return i
		}
	}
	return -1
}

// AvailableActions lists what the active hand may do, in menu order.
// Double Down and Split also need the bankroll to cover another wager.
func (r *Round) AvailableActions() []Action {
	idx := r.ActiveHandIndex()
	if idx < 0 {
		return nil
	}
	seat := r.Seats[idx]

	actions := []Action{ActionHit, ActionStand}
	if seat.Hand.Virgin && r.bankroll.CanCover(seat.Wager) {
		actions = append(actions, ActionDoubleDown)
		if seat.Hand.IsPair() {
			actions = append(actions, ActionSplit)
		}
	}
	return actions
}

// CanApply reports whether action is currently available
func (r *Round) CanApply(action Action) bool {
	for _, a := range r.AvailableActions() {
		if a == action {
			return true
		}
	}
	return false
}

// Apply performs a player decision on the active hand. Nothing changes when
// the action is rejected.
func (r *Round) Apply(action Action) error {
	idx := r.ActiveHandIndex()
	if idx < 0 {
		return types.WrapError(types.ErrIllegalAction, "no hand is waiting for a decision", ErrIllegalAction)
	}
	if !r.CanApply(action) {
		return types.WrapError(types.ErrIllegalAction,
			fmt.Sprintf("%s is not available for hand %d", action.Label(), idx+1), ErrIllegalAction)
	}

	var err error
	switch action {
	case ActionHit:
		err = r.hit(idx)
	case ActionStand:
		r.stand(idx)
	case ActionDoubleDown:
		err = r.doubleDown(idx)
	case ActionSplit:
		err = r.split(idx)
	}
	if err != nil {
		return err
	}

	r.advance()
	return nil
}

func (r *Round) hit(idx int) error {
	seat := r.Seats[idx]
	if err := r.dealTo(seat.Hand); err != nil {
		return err
	}
	seat.Actions = append(seat.Actions, ActionHit)

	if seat.Hand.Value() >= Blackjack {
		seat.Hand.Active = false
	} else {
		seat.Hand.Virgin = false
	}
	r.logger.Debug("Round %s: hand %d hits to %d", r.ID, idx+1, seat.Hand.Value())
	return nil
}

func (r *Round) stand(idx int) {
	seat := r.Seats[idx]
	seat.Hand.Active = false
	seat.Actions = append(seat.Actions, ActionStand)
	r.logger.Debug("Round %s: hand %d stands on %d", r.ID, idx+1, seat.Hand.Value())
}

func (r *Round) doubleDown(idx int) error {
	seat := r.Seats[idx]
	if r.shoe.Remaining() < 1 {
		return types.WrapError(types.ErrEmptyShoe, "cannot double down", entities.ErrEmptyShoe)
	}
	if err := r.bankroll.Debit(seat.Wager, entities.TransactionTypeDoubleDown, r.ID, "Double down bet"); err != nil {
		return types.WrapError(types.ErrInsufficientBankroll, "cannot double down", err)
	}

	seat.Wager *= 2
	seat.Doubled = true
	if err := r.dealTo(seat.Hand); err != nil {
		return err
	}
	seat.Hand.Virgin = false
	seat.Hand.Active = false
	seat.Actions = append(seat.Actions, ActionDoubleDown)

	r.logger.Debug("Round %s: hand %d doubles to %d, wager %d", r.ID, idx+1, seat.Hand.Value(), seat.Wager)
	return nil
}

// split replaces the hand at idx with two new hands, one per original card,
// each topped up with a fresh card and carrying a copy of the wager.
func (r *Round) split(idx int) error {
	seat := r.Seats[idx]
	if r.shoe.Remaining() < 2 {
		return types.WrapError(types.ErrEmptyShoe, "cannot split", entities.ErrEmptyShoe)
	}
	if err := r.bankroll.Debit(seat.Wager, entities.TransactionTypeSplit, r.ID, "Split bet"); err != nil {
		return types.WrapError(types.ErrInsufficientBankroll, "cannot split", err)
	}

	history := append(append([]Action{}, seat.Actions...), ActionSplit)
	replacements := make([]*Seat, 0, 2)
	for _, card := range seat.Hand.Cards {
		hand := NewHand(RolePlayer)
		if err := hand.Add(card); err != nil {
			return err
		}
		if err := r.dealTo(hand); err != nil {
			return err
		}
		replacements = append(replacements, &Seat{
			Hand:      hand,
			Wager:     seat.Wager,
			FromSplit: true,
			Actions:   append([]Action{}, history...),
		})
	}

	seats := make([]*Seat, 0, len(r.Seats)+1)
	seats = append(seats, r.Seats[:idx]...)
	seats = append(seats, replacements...)
	seats = append(seats, r.Seats[idx+1:]...)
	r.Seats = seats

	r.logger.Debug("Round %s: hand %d split into %v and %v", r.ID, idx+1,
		replacements[0].Hand.CardStrings(), replacements[1].Hand.CardStrings())
	return nil
}

// advance moves to the dealer phase once no hand is active
func (r *Round) advance() {
	if r.Phase == PhasePlayer && r.ActiveHandIndex() < 0 {
		r.Phase = PhaseDealer
	}
}

// AllBusted reports whether every player hand is over 21
func (r *Round) AllBusted() bool {
	for _, seat := range r.Seats {
		if !seat.Hand.IsBust() {
			return false
		}
	}
	return true
}

// RunDealerPhase reveals the hole card and draws to the house rule. When
// every player hand has busted the dealer does not play.
func (r *Round) RunDealerPhase() error {
	if r.Phase != PhaseDealer {
		return r.phaseError(PhaseDealer)
	}

	if r.AllBusted() {
		r.logger.Debug("Round %s: all hands bust, dealer does not play", r.ID)
		r.Phase = PhaseSettlement
		return nil
	}

	r.Dealer.Virgin = false
	for DealerShouldHit(r.Dealer) {
		if err := r.dealTo(r.Dealer); err != nil {
			return err
		}
	}
	r.Dealer.Active = false
	r.DealerPlayed = true
	r.Phase = PhaseSettlement

	r.logger.Debug("Round %s: dealer stands on %v (%d)", r.ID, r.Dealer.CardStrings(), r.Dealer.Value())
	return nil
}

// Settle pays every seat against the dealer's final hand. It can run once.
func (r *Round) Settle() (*Result, error) {
	if r.Phase != PhaseSettlement {
		return nil, r.phaseError(PhaseSettlement)
	}

	settlements := make([]Settlement, 0, len(r.Seats))
	for i, seat := range r.Seats {
		outcome, ratio := SettleHand(seat.Hand, r.Dealer)
		payout := ratio.Apply(seat.Wager)
		if payout > 0 {
			desc := fmt.Sprintf("Hand %d %s", i+1, outcome)
			if err := r.bankroll.Credit(payout, entities.TransactionTypePayout, r.ID, desc); err != nil {
				return nil, types.WrapError(types.ErrInternalError, "cannot pay hand", err)
			}
		}
		settlements = append(settlements, Settlement{
			HandIndex:  i,
			Outcome:    outcome,
			Ratio:      ratio,
			Wager:      seat.Wager,
			Payout:     payout,
			WagerDelta: payout - seat.Wager,
		})
		r.logger.Debug("Round %s: hand %d %s, wager %d, payout %d", r.ID, i+1, outcome, seat.Wager, payout)
	}

	r.Settlements = settlements
	r.Phase = PhaseSettled
	return r.Result(), nil
}

// Result returns the settled hands and side bets
func (r *Round) Result() *Result {
	return &Result{
		Hands:    append([]Settlement{}, r.Settlements...),
		SideBets: append([]SideBetResult{}, r.SideBets...),
	}
}

// Bankroll returns the bankroll the round debits and credits
func (r *Round) Bankroll() *entities.Bankroll {
	return r.bankroll
}

// ShoeRemaining returns how many cards are left in the round's shoe
func (r *Round) ShoeRemaining() int {
	return r.shoe.Remaining()
}

func (r *Round) dealTo(hand *Hand) error {
	card, err := r.shoe.Draw()
	if err != nil {
		return types.WrapError(types.ErrEmptyShoe, "cannot draw a card", err)
	}
	return hand.Add(card)
}

func (r *Round) phaseError(want Phase) error {
	if r.Phase == PhaseSettled {
		return types.WrapError(types.ErrRoundSettled, "round is already settled", ErrRoundSettled)
	}
	return types.WrapError(types.ErrRoundNotReady,
		fmt.Sprintf("round is in phase %s, not %s", r.Phase, want), ErrRoundNotReady)
}
