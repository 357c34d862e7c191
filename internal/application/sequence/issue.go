package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// BuildFunc stores the record that carries number. It runs in the
// transaction that consumed the number.
type BuildFunc func(repos uow.TransactionalRepositories, number string) error

// Issue takes the next number of series and runs build with it in one
// transaction. When build reports shared.ErrDuplicateNumber the whole
// transaction is tried once more; a second collision is returned.
func Issue(ctx context.Context, scope uow.TransactionScope, series sequence.Series, now time.Time, build BuildFunc) (string, error) {
	var number string
	for attempt := 1; ; attempt++ {
		err := scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
			var err error
			number, err = sequence.NewGenerator(repos.CounterRepo(), repos.NumberHistory()).Next(ctx, series, now)
			if err != nil {
				return fmt.Errorf("issue %s number: %w", series, err)
			}
			return build(repos, number)
		})
		if err == nil {
			return number, nil
		}
		if attempt == 1 && errors.Is(err, shared.ErrDuplicateNumber) {
			continue
		}
		return "", err
	}
}
