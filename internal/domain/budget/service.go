package budget

import (
	"context"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Budget, error) {
	if input.PeriodMonth < 1 || input.PeriodMonth > 12 || input.PeriodYear < 2000 {
		return Budget{}, ErrInvalidPeriod
	}
	if input.Amount.IsNegative() {
		return Budget{}, ErrInvalidAmount
	}
	return s.store.Create(ctx, input)
}

func (s *Service) Get(ctx context.Context, id int64) (Budget, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Budget, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) UpdateAmount(ctx context.Context, id int64, input UpdateInput) (Budget, error) {
	if input.Amount.IsNegative() {
		return Budget{}, ErrInvalidAmount
	}
	return s.store.UpdateAmount(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
