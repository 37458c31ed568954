package presets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, userID, pageContext string) ([]Preset, error) {
	return s.Store.List(ctx, userID, strings.TrimSpace(pageContext))
}

// Save stores the non-empty entries of filters under name for the user and
// page. Values must decode into the matrix filter fields.
func (s *Service) Save(ctx context.Context, userID, name, pageContext string, filters map[string]json.RawMessage) (Preset, error) {
	name = strings.TrimSpace(name)
	pageContext = strings.TrimSpace(pageContext)
	if name == "" {
		return Preset{}, ErrNameRequired
	}
	if pageContext == "" {
		return Preset{}, ErrContextRequired
	}
	values := ValuesFrom(filters)
	if len(values) == 0 {
		return Preset{}, ErrNoFilters
	}
	if _, err := ToFilterState(filters); err != nil {
		return Preset{}, fmt.Errorf("%w: %v", ErrInvalidFilters, err)
	}
	return s.Store.Create(ctx, Preset{UserID: userID, Name: name, PageContext: pageContext, Values: values})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Store.Delete(ctx, userID, id)
}
