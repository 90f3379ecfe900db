package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/ledchaser/internal/api/models"
	"github.com/smazurov/ledchaser/internal/attrs"
)

func (s *Server) registerAttributeRoutes() {
	group := s.options.Group

	huma.Register(s.api, huma.Operation{
		OperationID: "list-attributes",
		Method:      http.MethodGet,
		Path:        "/api/attrs",
		Summary:     "List attributes",
		Description: "Current value of every attribute in the LED group",
		Tags:        []string{"attributes"},
	}, func(_ context.Context, _ *struct{}) (*models.AttributeListResponse, error) {
		return &models.AttributeListResponse{
			Body: models.AttributeListData{
				Group:      group.Name(),
				Attributes: group.Snapshot(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-attribute",
		Method:      http.MethodGet,
		Path:        "/api/attrs/{name}",
		Summary:     "Read attribute",
		Description: "Read one attribute, like reading its file",
		Tags:        []string{"attributes"},
		Errors:      []int{404},
	}, func(_ context.Context, input *models.AttributeInput) (*models.AttributeResponse, error) {
		value, err := group.Show(input.Name)
		if err != nil {
			return nil, attributeError(err)
		}
		return &models.AttributeResponse{
			Body: models.AttributeData{Name: input.Name, Value: value},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "store-attribute",
		Method:      http.MethodPut,
		Path:        "/api/attrs/{name}",
		Summary:     "Write attribute",
		Description: "Write one attribute, like writing its file. Invalid values are ignored and reported with applied=false.",
		Tags:        []string{"attributes"},
		Errors:      []int{404},
	}, func(_ context.Context, input *models.AttributeStoreInput) (*models.AttributeStoreResponse, error) {
		applied, err := group.Store(input.Name, input.Body.Value)
		if err != nil {
			return nil, attributeError(err)
		}
		value, err := group.Show(input.Name)
		if err != nil {
			return nil, attributeError(err)
		}
		return &models.AttributeStoreResponse{
			Body: models.AttributeStoreData{Name: input.Name, Value: value, Applied: applied},
		}, nil
	})
}

func attributeError(err error) error {
	if errors.Is(err, attrs.ErrNoAttribute) {
		return huma.Error404NotFound("Attribute not found", err)
	}
	return huma.Error500InternalServerError("Attribute access failed", err)
}
