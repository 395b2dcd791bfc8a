package providers

import (
	"encoding/json"
	"io"
	"net/http"
)

// readJSON decodes a test request body.
func readJSON(r *http.Request, v any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
