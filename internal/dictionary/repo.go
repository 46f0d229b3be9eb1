package dictionary

import "context"

// Repo lists stored dictionary rows ordered by plant name.
type Repo interface {
	List(ctx context.Context) ([]Row, error)
}
