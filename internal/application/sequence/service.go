// Package sequence exposes document number previews.
package sequence

import (
	"context"
	"time"

	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/sequence"
)

// NextNumberResponse is the number the next document of a series would receive
type NextNumberResponse struct {
	Series string `json:"series"`
	Number string `json:"number"`
}

// Service previews document numbers
type Service struct {
	scope uow.TransactionScope
	now   func() time.Time
}

// NewService creates a new Service
func NewService(scope uow.TransactionScope) *Service {
	return &Service{scope: scope, now: time.Now}
}

// NextNumber returns the number the next document of series would receive.
// Nothing is consumed, so a concurrent creation may take it first.
func (s *Service) NextNumber(ctx context.Context, rawSeries string) (*NextNumberResponse, error) {
	series, err := sequence.ParseSeries(rawSeries)
	if err != nil {
		return nil, err
	}

	var number string
	err = s.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		var err error
		number, err = sequence.NewGenerator(repos.CounterRepo(), repos.NumberHistory()).Peek(ctx, series, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{Series: series.String(), Number: number}, nil
}
