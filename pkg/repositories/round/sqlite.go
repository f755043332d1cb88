package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	"github.com/fadedpez/blackjack/pkg/entities"
)

// Fixed width so stored timestamps sort as text
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db     *sql.DB
	owned  bool
	logger *logging.Logger
}

// NewSQLiteRepository opens (and migrates) the database at dbPath
func NewSQLiteRepository(dbPath string, logger *logging.Logger) (*SQLiteRepository, error) {
	db, err := migrations.Open(dbPath, logger)
	if err != nil {
		return nil, err
	}
	repo := NewSQLiteRepositoryFromDB(db, logger)
	repo.owned = true
	return repo, nil
}

// NewSQLiteRepositoryFromDB uses an already migrated database. Close leaves
// the database open.
func NewSQLiteRepositoryFromDB(db *sql.DB, logger *logging.Logger) *SQLiteRepository {
	if logger == nil {
		logger = logging.Default
	}
	return &SQLiteRepository{db: db, logger: logger}
}

// SaveRound stores the round, its hands and its side bets in one transaction
func (r *SQLiteRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	dealerCards, err := json.Marshal(record.DealerCards)
	if err != nil {
		return fmt.Errorf("error marshaling dealer cards: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (
			id, player_id, started_at, completed_at, dealer_cards, dealer_score, dealer_played, balance_end
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PlayerID,
		record.StartedAt.UTC().Format(timeFormat),
		record.CompletedAt.UTC().Format(timeFormat),
		string(dealerCards),
		record.DealerScore,
		record.DealerPlay,
		record.BalanceEnd,
	)
	if err != nil {
		return fmt.Errorf("error inserting round: %w", err)
	}

	for _, hand := range record.Hands {
		cards, err := json.Marshal(hand.Cards)
		if err != nil {
			return fmt.Errorf("error marshaling hand cards: %w", err)
		}
		actions, err := json.Marshal(hand.Actions)
		if err != nil {
			return fmt.Errorf("error marshaling hand actions: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO hand_records (
				round_id, hand_index, cards, final_score, wager, is_split, is_doubled_down,
				outcome, ratio, payout, actions
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			hand.Index,
			string(cards),
			hand.FinalScore,
			hand.Wager,
			hand.IsSplit,
			hand.IsDoubledDown,
			string(hand.Outcome),
			hand.Ratio,
			hand.Payout,
			string(actions),
		)
		if err != nil {
			return fmt.Errorf("error inserting hand record: %w", err)
		}
	}

	for _, sb := range record.SideBets {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO side_bet_records (round_id, bet, kind, stake, ratio, payout)
			VALUES (?, ?, ?, ?, ?, ?)`,
			record.ID, sb.Bet, sb.Kind, sb.Stake, sb.Ratio, sb.Payout,
		)
		if err != nil {
			return fmt.Errorf("error inserting side bet record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing round: %w", err)
	}

	r.logger.Debug("Saved round %s for player %s", record.ID, record.PlayerID)
	return nil
}

// GetPlayerRounds returns a player's most recent rounds, newest first
func (r *SQLiteRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, started_at, completed_at, dealer_cards, dealer_score, dealer_played, balance_end
		FROM rounds
		WHERE player_id = ?
		ORDER BY completed_at DESC
		LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	records := make([]*entities.RoundRecord, 0)
	for rows.Next() {
		var record entities.RoundRecord
		var startedAt, completedAt, dealerCards string

		if err := rows.Scan(
			&record.ID,
			&record.PlayerID,
			&startedAt,
			&completedAt,
			&dealerCards,
			&record.DealerScore,
			&record.DealerPlay,
			&record.BalanceEnd,
		); err != nil {
			return nil, fmt.Errorf("error scanning round row: %w", err)
		}

		if record.StartedAt, err = time.Parse(timeFormat, startedAt); err != nil {
			return nil, fmt.Errorf("error parsing timestamp '%s': %w", startedAt, err)
		}
		if record.CompletedAt, err = time.Parse(timeFormat, completedAt); err != nil {
			return nil, fmt.Errorf("error parsing timestamp '%s': %w", completedAt, err)
		}
		if err := json.Unmarshal([]byte(dealerCards), &record.DealerCards); err != nil {
			return nil, fmt.Errorf("error unmarshaling dealer cards: %w", err)
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round rows: %w", err)
	}
	rows.Close()

	for _, record := range records {
		if err := r.loadHands(ctx, record); err != nil {
			return nil, err
		}
		if err := r.loadSideBets(ctx, record); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (r *SQLiteRepository) loadHands(ctx context.Context, record *entities.RoundRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hand_index, cards, final_score, wager, is_split, is_doubled_down, outcome, ratio, payout, actions
		FROM hand_records
		WHERE round_id = ?
		ORDER BY hand_index`, record.ID)
	if err != nil {
		return fmt.Errorf("error querying hand records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hand entities.HandRecord
		var cards, outcome, actions string

		if err := rows.Scan(
			&hand.Index,
			&cards,
			&hand.FinalScore,
			&hand.Wager,
			&hand.IsSplit,
			&hand.IsDoubledDown,
			&outcome,
			&hand.Ratio,
			&hand.Payout,
			&actions,
		); err != nil {
			return fmt.Errorf("error scanning hand record: %w", err)
		}

		hand.Outcome = entities.Outcome(outcome)
		if err := json.Unmarshal([]byte(cards), &hand.Cards); err != nil {
			return fmt.Errorf("error unmarshaling hand cards: %w", err)
		}
		if err := json.Unmarshal([]byte(actions), &hand.Actions); err != nil {
			return fmt.Errorf("error unmarshaling hand actions: %w", err)
		}
		record.Hands = append(record.Hands, hand)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSideBets(ctx context.Context, record *entities.RoundRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bet, kind, stake, ratio, payout
		FROM side_bet_records
		WHERE round_id = ?
		ORDER BY id`, record.ID)
	if err != nil {
		return fmt.Errorf("error querying side bet records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sb entities.SideBetRecord
		var kind sql.NullString
		if err := rows.Scan(&sb.Bet, &kind, &sb.Stake, &sb.Ratio, &sb.Payout); err != nil {
			return fmt.Errorf("error scanning side bet record: %w", err)
		}
		sb.Kind = kind.String
		record.SideBets = append(record.SideBets, sb)
	}
	return rows.Err()
}

// GetPlayerStatistics aggregates every round a player has finished
func (r *SQLiteRepository) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	rounds, err := r.GetPlayerRounds(ctx, playerID, 0)
	if err != nil {
		return nil, err
	}
	return aggregate(playerID, rounds), nil
}

// Close closes the database connection if the repository opened it
func (r *SQLiteRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}
