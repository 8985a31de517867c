package messages

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	messages map[int64]*Message
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: map[int64]*Message{}, nextID: 1}
}

func (f *fakeStore) Create(_ context.Context, input CreateInput) (Message, error) {
	m := Message{ID: f.nextID, EmployeeID: input.EmployeeID, Type: input.Type, Title: input.Title, Body: input.Body}
	f.messages[m.ID] = &m
	f.nextID++
	return m, nil
}

func (f *fakeStore) ListForEmployee(_ context.Context, employeeID int64, unreadOnly bool) ([]Message, error) {
	var out []Message
	for _, m := range f.messages {
		if m.EmployeeID != employeeID {
			continue
		}
		if unreadOnly && m.ReadAt != nil {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id int64) (Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return Message{}, ErrMessageNotFound
	}
	if m.ReadAt == nil {
		now := time.Now()
		m.ReadAt = &now
	}
	return *m, nil
}

func (f *fakeStore) UnreadCount(_ context.Context, employeeID int64) (int, error) {
	count := 0
	for _, m := range f.messages {
		if m.EmployeeID == employeeID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

var _ StoreAPI = (*fakeStore)(nil)

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Create(context.Background(), CreateInput{EmployeeID: 1, Type: "telegram", Title: "x"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{EmployeeID: 1, Type: TypePayNotification, Title: "Paie disponible"}); err != nil {
		t.Fatalf("valid type rejected: %v", err)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{EmployeeID: 1, Type: TypeGeneral, Title: "Note"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, _ := svc.UnreadCount(ctx, 1)
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}

	first, err := svc.MarkRead(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	second, err := svc.MarkRead(ctx, created.ID)
	if err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if !second.ReadAt.Equal(*first.ReadAt) {
		t.Fatal("repeat MarkRead moved the read timestamp")
	}

	count, _ = svc.UnreadCount(ctx, 1)
	if count != 0 {
		t.Fatalf("unread after read = %d, want 0", count)
	}

	if _, err := svc.MarkRead(ctx, 99); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("missing message err = %v, want ErrMessageNotFound", err)
	}
}
