package shared

// BaseAggregateRoot is embedded by records that are edited after creation.
// Version starts at 1 and grows by one per edit; repositories persist it with
// the row.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot returns a fresh identity at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion records one edit
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
