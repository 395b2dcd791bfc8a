package providers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"webscout/stream"
)

const labyrinthEndpoint = "https://labyrinth-ebon.vercel.app/api/chat"

var LabyrinthModels = []string{"default"}

// Labyrinth talks to the labyrinth Vercel deployment.
type Labyrinth struct {
	*Engine
}

func NewLabyrinth(opts Options) (*Labyrinth, error) {
	if _, err := resolveModel("labyrinth", opts.Model, LabyrinthModels[0], LabyrinthModels); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	endpoint := endpointURL(opts.BaseURL, labyrinthEndpoint)
	hdr := http.Header{
		"Origin":  {"https://labyrinth-ebon.vercel.app"},
		"Referer": {"https://labyrinth-ebon.vercel.app/"},
	}

	eng, err := newEngine(opts, engineSpec{
		name:    "labyrinth",
		models:  LabyrinthModels,
		decoder: &stream.Vercel{Logger: opts.Logger},
		build: func(ctx context.Context, prompt string) (*http.Request, error) {
			return postJSON(ctx, endpoint, hdr, map[string]any{
				"id": uuid.NewString(),
				"messages": []map[string]any{
					{
						"role":    "user",
						"content": prompt,
						"parts": []map[string]string{
							{"type": "text", "text": prompt},
						},
					},
				},
				"stockMode": false,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return &Labyrinth{Engine: eng}, nil
}
