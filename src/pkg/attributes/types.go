package attributes

import (
	"context"
	"fmt"
)

type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Lookup reads one item from domain. Only the first attribute the store
// returns is reported; found is false when the item has no attributes.
type Lookup interface {
	Lookup(ctx context.Context, domain, identifier string) (attr Attribute, found bool, err error)
}

func queryError(domain, identifier string, err error) error {
	return fmt.Errorf("failed to query domain %q with %q: %w", domain, identifier, err)
}
