package maintenance

import "context"

// Repo reads the current maintenance status. A missing row is reported as
// not in maintenance, not as an error.
type Repo interface {
	Get(ctx context.Context) (Status, error)
}
