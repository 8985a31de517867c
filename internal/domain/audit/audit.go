package audit

import (
	"context"
	"encoding/json"
	"time"

	"govpay/internal/platform/querier"
	"govpay/internal/requestctx"
)

// Event is an append-only trail entry. Before/After hold JSON snapshots of
// the entity around the mutation, either may be absent.
type Event struct {
	ID          int64           `json:"id"`
	ActorUserID *int64          `json:"actorUserId,omitempty"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityId"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	RequestID   string          `json:"requestId,omitempty"`
	IP          string          `json:"ip,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Recorder struct {
	DB querier.Querier
}

func NewRecorder(db querier.Querier) *Recorder {
	return &Recorder{DB: db}
}

// Record appends an event. The request id is taken from the context when
// present. Failures are returned but callers generally log and move on,
// auditing must not roll back the mutation it describes.
func (r *Recorder) Record(ctx context.Context, actorUserID *int64, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		return err
	}

	var requestID *string
	if id := requestctx.GetRequestID(ctx); id != "" {
		requestID = &id
	}

	_, err = r.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
  `, actorUserID, action, entityType, entityID, beforeJSON, afterJSON, requestID)
	return err
}

func (r *Recorder) List(ctx context.Context, entityType, entityID string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
    SELECT id, actor_user_id, action, entity_type, entity_id, before_json, after_json,
      COALESCE(request_id, ''), COALESCE(ip, ''), created_at
    FROM audit_events
    WHERE entity_type = $1 AND entity_id = $2
    ORDER BY created_at DESC
    LIMIT $3
  `, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Before, &e.After, &e.RequestID, &e.IP, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func marshalSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
