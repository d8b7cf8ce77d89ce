package agent

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresInteractionSink writes interaction records to the interactions
// table. Driver registration (pgx stdlib) happens in the binary.
type PostgresInteractionSink struct {
	db *sql.DB
}

// NewPostgresInteractionSink wraps an open database handle.
func NewPostgresInteractionSink(db *sql.DB) *PostgresInteractionSink {
	if db == nil {
		panic("agent: database handle cannot be nil")
	}
	return &PostgresInteractionSink{db: db}
}

const insertInteractionSQL = `
INSERT INTO interactions (
	ts, user_id, conversation_id, message_number, user_message,
	intent, agent_response, state, language, fomo_triggered, response_time_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// WriteInteraction inserts one analytics row.
func (s *PostgresInteractionSink) WriteInteraction(ctx context.Context, rec InteractionRecord) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertInteractionSQL,
		ts, rec.UserID, rec.ConversationID, rec.MessageNumber, rec.UserMessage,
		string(rec.Intent), rec.AgentResponse, string(rec.State), string(rec.Language),
		rec.FomoTriggered, rec.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("agent: insert interaction: %w", err)
	}
	return nil
}

// OutcomeCount is one row of the outcome distribution report.
type OutcomeCount struct {
	State AgentState `json:"state"`
	Count int64      `json:"count"`
}

const outcomeDistributionSQL = `
SELECT state, COUNT(*) FROM (
	SELECT DISTINCT ON (conversation_id) conversation_id, state
	FROM interactions
	ORDER BY conversation_id, ts DESC
) latest GROUP BY state ORDER BY state`

// OutcomeDistribution reports how many conversations currently sit in each
// state, based on the latest interaction per conversation.
func (s *PostgresInteractionSink) OutcomeDistribution(ctx context.Context) ([]OutcomeCount, error) {
	rows, err := s.db.QueryContext(ctx, outcomeDistributionSQL)
	if err != nil {
		return nil, fmt.Errorf("agent: query outcome distribution: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var oc OutcomeCount
		var state string
		if err := rows.Scan(&state, &oc.Count); err != nil {
			return nil, fmt.Errorf("agent: scan outcome row: %w", err)
		}
		oc.State = AgentState(state)
		out = append(out, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent: iterate outcome rows: %w", err)
	}
	return out, nil
}
