package round

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
)

const roundMapping = `{
	"mappings": {
		"properties": {
			"round_id": { "type": "keyword" },
			"player_id": { "type": "keyword" },
			"started_at": { "type": "date" },
			"completed_at": { "type": "date" },
			"dealer_cards": { "type": "keyword" },
			"dealer_score": { "type": "integer" },
			"dealer_bust": { "type": "boolean" },
			"dealer_played": { "type": "boolean" },
			"wagered": { "type": "long" },
			"returned": { "type": "long" },
			"net": { "type": "long" },
			"balance_end": { "type": "long" },
			"hands": {
				"type": "nested",
				"properties": {
					"index": { "type": "integer" },
					"cards": { "type": "keyword" },
					"score": { "type": "integer" },
					"wager": { "type": "long" },
					"payout": { "type": "long" },
					"outcome": { "type": "keyword" },
					"ratio": { "type": "float" },
					"busted": { "type": "boolean" },
					"is_split": { "type": "boolean" },
					"is_doubled_down": { "type": "boolean" },
					"actions": { "type": "keyword" }
				}
			},
			"side_bets": {
				"type": "nested",
				"properties": {
					"bet": { "type": "keyword" },
					"kind": { "type": "keyword" },
					"stake": { "type": "long" },
					"ratio": { "type": "float" },
					"payout": { "type": "long" }
				}
			}
		}
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper // Optional, replaces the default HTTP transport
}

// ElasticsearchRepository indexes every saved round in Elasticsearch for
// analytics. The base repository remains the source of truth: reads are
// delegated to it and indexing failures are logged, not returned.
type ElasticsearchRepository struct {
	baseRepo   Repository
	client     *elasticsearch.Client
	roundIndex string
	logger     *logging.Logger

	// Rounds saved while indexing failed, by round ID, waiting for RetryFailed
	mu      sync.Mutex
	pending map[string]*entities.RoundRecord
}

// MaxPendingIndex bounds the rounds held for a later indexing retry
const MaxPendingIndex = 1000

// NewElasticsearchRepository wraps baseRepo and makes sure the round index exists
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	if logger == nil {
		logger = logging.Default
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "blackjack"
	}

	repo := &ElasticsearchRepository{
		baseRepo:   baseRepo,
		client:     client,
		roundIndex: config.IndexPrefix + "_rounds",
		logger:     logger,
		pending:    make(map[string]*entities.RoundRecord),
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

// initIndex creates the round index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.roundIndex}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if round index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.roundIndex,
		Body:  bytes.NewReader([]byte(roundMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating round index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating round index: %s", res.String())
	}

	r.logger.Info("Created Elasticsearch index %s", r.roundIndex)
	return nil
}

// IndexRound writes the round document, keyed by round ID so re-indexing a
// round replaces it
func (r *ElasticsearchRepository) IndexRound(ctx context.Context, record *entities.RoundRecord) error {
	jsonData, err := json.Marshal(NewESRoundDocument(record))
	if err != nil {
		return fmt.Errorf("error marshaling round: %w", err)
	}

	res, err := r.client.Index(
		r.roundIndex,
		bytes.NewReader(jsonData),
		r.client.Index.WithDocumentID(record.ID),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error indexing round: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round: %s", res.String())
	}

	return nil
}

// SaveRound saves to the base repository, then indexes the round
func (r *ElasticsearchRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	if err := r.baseRepo.SaveRound(ctx, record); err != nil {
		return fmt.Errorf("error saving round to base repository: %w", err)
	}

	if err := r.IndexRound(ctx, record); err != nil {
		r.logger.Warn("Round %s saved but not indexed: %v", record.ID, err)
		r.queue(record)
	}
	return nil
}

func (r *ElasticsearchRepository) queue(record *entities.RoundRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) >= MaxPendingIndex {
		r.logger.Warn("Index retry queue full, dropping round %s", record.ID)
		return
	}
	r.pending[record.ID] = record
}

// PendingCount returns how many saved rounds are waiting to be indexed
func (r *ElasticsearchRepository) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// RetryFailed indexes the rounds whose indexing failed on save. Rounds that
// fail again stay queued. It returns how many were indexed.
func (r *ElasticsearchRepository) RetryFailed(ctx context.Context) (int, error) {
	r.mu.Lock()
	batch := make([]*entities.RoundRecord, 0, len(r.pending))
	for _, record := range r.pending {
		batch = append(batch, record)
	}
	r.mu.Unlock()

	indexed := 0
	var lastErr error
	for _, record := range batch {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if err := r.IndexRound(ctx, record); err != nil {
			lastErr = err
			continue
		}
		r.mu.Lock()
		delete(r.pending, record.ID)
		r.mu.Unlock()
		indexed++
	}

	if indexed > 0 {
		r.logger.Info("Indexed %d previously failed rounds", indexed)
	}
	if lastErr != nil {
		return indexed, fmt.Errorf("%d rounds still not indexed: %w", len(batch)-indexed, lastErr)
	}
	return indexed, nil
}

// GetPlayerRounds delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	return r.baseRepo.GetPlayerRounds(ctx, playerID, limit)
}

// GetPlayerStatistics delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	return r.baseRepo.GetPlayerStatistics(ctx, playerID)
}

// CountPlayerRounds returns how many rounds the index holds for a player
func (r *ElasticsearchRepository) CountPlayerRounds(ctx context.Context, playerID string) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"player_id": playerID},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, err
	}

	res, err := r.client.Count(
		r.client.Count.WithContext(ctx),
		r.client.Count.WithIndex(r.roundIndex),
		r.client.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("error counting rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("error counting rounds: %s", res.String())
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("error parsing count response: %w", err)
	}
	return result.Count, nil
}

// GetIndexName returns the name of the round index
func (r *ElasticsearchRepository) GetIndexName() string {
	return r.roundIndex
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
