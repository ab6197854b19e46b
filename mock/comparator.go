package mock

import "github.com/fwojciec/confpub"

var _ confpub.BodyComparator = (*BodyComparator)(nil)

// BodyComparator is a mock implementation of confpub.BodyComparator.
type BodyComparator struct {
	EqualFn func(old, new string) (bool, error)
}

func (c *BodyComparator) Equal(old, new string) (bool, error) {
	return c.EqualFn(old, new)
}
