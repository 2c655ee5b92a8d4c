package cleaning

import (
	"csvscope/domain/core"
	"csvscope/domain/table"
)

// Cleaner composes type coercion and imputation into one deterministic
// table transform. Clean is a pure function of its input.
type Cleaner struct {
	coercer *TypeCoercer
	imputer *Imputer
}

// NewCleaner creates a cleaner with the given coercion config
func NewCleaner(config CoercionConfig) *Cleaner {
	return &Cleaner{
		coercer: NewTypeCoercer(config),
		imputer: NewImputer(),
	}
}

// Clean reclassifies column types and fills missing values, returning a
// new table. Fails with core.ErrEmptyInput when the input has zero rows
// or zero columns, signalling that no further processing is possible.
func (c *Cleaner) Clean(raw table.Table) (table.Table, error) {
	if raw.IsEmpty() {
		return table.Table{}, core.ErrEmptyInput
	}
	coerced := c.coercer.Coerce(raw)
	return c.imputer.Impute(coerced), nil
}
