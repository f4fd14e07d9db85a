package ollama

import (
	"context"
	"fmt"
)

// ModelAdmin reports and installs the models this deployment requires.
// Administrative concern: the query and ingestion paths never call it.
type ModelAdmin struct {
	client   *Client
	required []string
}

// NewModelAdmin creates a ModelAdmin for the given required model names
func NewModelAdmin(client *Client, required ...string) *ModelAdmin {
	return &ModelAdmin{
		client:   client,
		required: required,
	}
}

// ModelStatus describes which required models are installed
type ModelStatus struct {
	Available []string `json:"available_models"`
	Required  []string `json:"required_models"`
	Missing   []string `json:"missing_models"`
	AllReady  bool     `json:"all_models_ready"`
}

// tagsResponse is the response from the Ollama tags API. Older servers named
// the model field "name", newer ones "model".
type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Status lists installed models and reports which required ones are missing
func (m *ModelAdmin) Status(ctx context.Context) (*ModelStatus, error) {
	var resp tagsResponse
	if err := m.client.get(ctx, "/api/tags", &resp); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	available := make([]string, 0, len(resp.Models))
	installed := make(map[string]bool, len(resp.Models))
	for _, model := range resp.Models {
		name := model.Name
		if name == "" {
			name = model.Model
		}
		available = append(available, name)
		installed[name] = true
	}

	missing := make([]string, 0)
	for _, name := range m.required {
		if !installed[name] {
			missing = append(missing, name)
		}
	}

	return &ModelStatus{
		Available: available,
		Required:  m.required,
		Missing:   missing,
		AllReady:  len(missing) == 0,
	}, nil
}

// PullResult reports the outcome of pulling one model
type PullResult struct {
	Model  string `json:"model"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// pullRequest is the request body for the Ollama pull API
type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// PullRequired installs every required model, continuing past individual
// failures so one bad model does not block the rest
func (m *ModelAdmin) PullRequired(ctx context.Context) []PullResult {
	results := make([]PullResult, 0, len(m.required))
	for _, name := range m.required {
		_, err := m.client.post(ctx, "/api/pull", pullRequest{Model: name, Stream: false})
		if err != nil {
			results = append(results, PullResult{Model: name, Status: "error", Error: err.Error()})
			continue
		}
		results = append(results, PullResult{Model: name, Status: "success"})
	}
	return results
}
