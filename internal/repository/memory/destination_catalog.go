package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/destination"
)

// DestinationCatalog is a fixed, read-only list of destinations.
type DestinationCatalog struct {
	byID  map[int64]*destination.Destination
	names []*destination.Destination
}

// NewDestinationCatalog indexes the given destinations.
func NewDestinationCatalog(destinations ...*destination.Destination) *DestinationCatalog {
	c := &DestinationCatalog{byID: make(map[int64]*destination.Destination, len(destinations))}
	for _, d := range destinations {
		c.byID[d.ID] = d
		c.names = append(c.names, d)
	}
	sort.SliceStable(c.names, func(i, j int) bool {
		return strings.ToLower(c.names[i].Name) < strings.ToLower(c.names[j].Name)
	})
	return c
}

// FindByID returns a destination or a not-found error.
func (c *DestinationCatalog) FindByID(_ context.Context, id int64) (*destination.Destination, error) {
	d, ok := c.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("destination", strconv.FormatInt(id, 10))
	}
	return d, nil
}

// ListAll returns destinations ordered by name.
func (c *DestinationCatalog) ListAll(_ context.Context) ([]*destination.Destination, error) {
	out := make([]*destination.Destination, len(c.names))
	copy(out, c.names)
	return out, nil
}
