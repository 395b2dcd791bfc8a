package providers

import (
	"errors"
	"testing"

	"webscout"
)

func TestFactoryUnknownProvider(t *testing.T) {
	if _, err := New("nope", Options{}); err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}

func TestEveryProviderRejectsUnknownModel(t *testing.T) {
	for _, name := range Names() {
		_, err := New(name, Options{
			Model:      "no-such-model",
			APIKey:     "test-key",
			CookiePath: "cookies.json",
			Seed:       1,
		})
		if !errors.Is(err, webscout.ErrUnknownModel) {
			t.Fatalf("%s: expected ErrUnknownModel, got %v", name, err)
		}
	}
}
