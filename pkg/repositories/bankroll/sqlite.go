package bankroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
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

// GetBankroll retrieves a bankroll by player ID
func (r *SQLiteRepository) GetBankroll(ctx context.Context, playerID string) (*entities.Bankroll, error) {
	query := `SELECT player_id, balance, updated_at FROM bankrolls WHERE player_id = ?`

	var id, updatedAt string
	var balance int64
	err := r.db.QueryRowContext(ctx, query, playerID).Scan(&id, &balance, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBankrollNotFound
		}
		return nil, fmt.Errorf("error getting bankroll: %w", err)
	}

	bankroll := entities.NewBankroll(id, balance)
	if bankroll.LastUpdated, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("error parsing timestamp '%s': %w", updatedAt, err)
	}
	return bankroll, nil
}

// SaveBankroll creates or updates a bankroll
func (r *SQLiteRepository) SaveBankroll(ctx context.Context, bankroll *entities.Bankroll) error {
	query := `
		INSERT INTO bankrolls (player_id, balance, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			balance = excluded.balance,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		bankroll.PlayerID, bankroll.Balance, bankroll.LastUpdated.UTC().Format(timeFormat))
	if err != nil {
		r.logger.Error("Error saving bankroll for player %s: %v", bankroll.PlayerID, err)
		return fmt.Errorf("error saving bankroll: %w", err)
	}

	r.logger.Debug("Saved bankroll for player %s: balance %d", bankroll.PlayerID, bankroll.Balance)
	return nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	query := `
		INSERT INTO transactions (
			id, player_id, amount, type, reference_id, description, timestamp, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.PlayerID,
		transaction.Amount,
		string(transaction.Type),
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp.UTC().Format(timeFormat),
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error adding transaction: %w", err)
	}

	return nil
}

// GetTransactions retrieves recent transactions for a player, newest first
func (r *SQLiteRepository) GetTransactions(ctx context.Context, playerID string, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, player_id, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE player_id = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0)
	for rows.Next() {
		var tx entities.Transaction
		var txType, timestamp string

		err := rows.Scan(
			&tx.ID,
			&tx.PlayerID,
			&tx.Amount,
			&txType,
			&tx.ReferenceID,
			&tx.Description,
			&timestamp,
			&tx.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}

		tx.Type = entities.TransactionType(txType)
		if tx.Timestamp, err = time.Parse(timeFormat, timestamp); err != nil {
			return nil, fmt.Errorf("error parsing timestamp '%s': %w", timestamp, err)
		}

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// Close closes the database connection if the repository opened it
func (r *SQLiteRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}
