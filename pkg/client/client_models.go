package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adrianliechti/imagine/pkg/provider"
)

type ModelService struct {
	Options []RequestOption
}

func NewModelService(opts ...RequestOption) ModelService {
	return ModelService{
		Options: opts,
	}
}

type Model = provider.Model

func (r *ModelService) List(ctx context.Context, opts ...RequestOption) ([]Model, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/images/models", nil)
	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	type ModelList struct {
		Models []struct {
			ID string `json:"id"`

			Name        string `json:"name"`
			Description string `json:"description"`

			MaxWidth  int `json:"maxWidth"`
			MaxHeight int `json:"maxHeight"`

			DefaultWidth  int `json:"defaultWidth"`
			DefaultHeight int `json:"defaultHeight"`
		} `json:"models"`
	}

	var result ModelList

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var models []Model

	for _, m := range result.Models {
		models = append(models, Model{
			ID: m.ID,

			Name:        m.Name,
			Description: m.Description,

			MaxWidth:  m.MaxWidth,
			MaxHeight: m.MaxHeight,

			DefaultWidth:  m.DefaultWidth,
			DefaultHeight: m.DefaultHeight,
		})
	}

	return models, nil
}
