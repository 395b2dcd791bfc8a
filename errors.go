package webscout

import "errors"

// The closed error set providers surface. Adapters wrap these with %w so
// callers can test with errors.Is.
var (
	// ErrUnknownModel: the requested model is not in the provider's
	// AVAILABLE_MODELS list. Construction fails; no network call is made.
	ErrUnknownModel = errors.New("unknown model")

	// ErrActNotFound: the caller-supplied act key has no entry in the act
	// library.
	ErrActNotFound = errors.New("act not found")

	// ErrUnknownOptimizer: the named prompt optimizer does not exist.
	ErrUnknownOptimizer = errors.New("unknown optimizer")

	// ErrAuth: cookie file missing or unreadable, or the upstream rejected
	// the credential.
	ErrAuth = errors.New("authentication failed")

	// ErrRateLimited: upstream returned 429/403 and the single
	// identity-refresh retry did not recover.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout: the call exceeded its deadline before the response
	// finished.
	ErrTimeout = errors.New("timed out")

	// ErrBadResponse: HTTP >= 400 after any retry, or a malformed response
	// envelope.
	ErrBadResponse = errors.New("bad response")
)
