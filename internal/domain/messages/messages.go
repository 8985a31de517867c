package messages

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"govpay/internal/platform/querier"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidType     = errors.New("invalid message type")
)

const (
	TypePayNotification = "pay_notification"
	TypeSanction        = "sanction"
	TypePromotion       = "promotion"
	TypeDeduction       = "deduction"
	TypeGeneral         = "general"
)

var validTypes = map[string]bool{
	TypePayNotification: true,
	TypeSanction:        true,
	TypePromotion:       true,
	TypeDeduction:       true,
	TypeGeneral:         true,
}

type Message struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employeeId"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Body       *string    `json:"body,omitempty"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type CreateInput struct {
	EmployeeID int64   `json:"employeeId"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Body       *string `json:"body"`
}

type StoreAPI interface {
	Create(ctx context.Context, input CreateInput) (Message, error)
	ListForEmployee(ctx context.Context, employeeID int64, unreadOnly bool) ([]Message, error)
	MarkRead(ctx context.Context, id int64) (Message, error)
	UnreadCount(ctx context.Context, employeeID int64) (int, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const messageColumns = "id, employee_id, type, title, body, read_at, created_at"

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.EmployeeID, &m.Type, &m.Title, &m.Body, &m.ReadAt, &m.CreatedAt)
	return m, err
}

func (s *Store) Create(ctx context.Context, input CreateInput) (Message, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO messages (employee_id, type, title, body)
    VALUES ($1, $2, $3, $4)
    RETURNING `+messageColumns,
		input.EmployeeID, input.Type, input.Title, input.Body)
	return scanMessage(row)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID int64, unreadOnly bool) ([]Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE employee_id = $1"
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MarkRead is idempotent, re-reading keeps the first read timestamp.
func (s *Store) MarkRead(ctx context.Context, id int64) (Message, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE messages SET read_at = COALESCE(read_at, now())
    WHERE id = $1
    RETURNING `+messageColumns, id)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrMessageNotFound
	}
	return m, err
}

func (s *Store) UnreadCount(ctx context.Context, employeeID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM messages WHERE employee_id = $1 AND read_at IS NULL", employeeID).Scan(&count)
	return count, err
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Message, error) {
	if !validTypes[input.Type] {
		return Message{}, ErrInvalidType
	}
	return s.store.Create(ctx, input)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, unreadOnly bool) ([]Message, error) {
	return s.store.ListForEmployee(ctx, employeeID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, id int64) (Message, error) {
	return s.store.MarkRead(ctx, id)
}

func (s *Service) UnreadCount(ctx context.Context, employeeID int64) (int, error) {
	return s.store.UnreadCount(ctx, employeeID)
}

var _ StoreAPI = (*Store)(nil)
