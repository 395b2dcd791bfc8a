package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// ErrorKind tags the transport failure taxonomy.
type ErrorKind string

const (
	KindConnect    ErrorKind = "connect"
	KindTimeout    ErrorKind = "timeout"
	KindTLS        ErrorKind = "tls"
	KindHTTPStatus ErrorKind = "http status"
	KindBodyDecode ErrorKind = "body decode"
	KindCanceled   ErrorKind = "canceled"
)

// Error is a tagged transport failure.
type Error struct {
	Kind ErrorKind
	// Code is set for KindHTTPStatus.
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("transport: http status %d", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transport: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError builds a KindHTTPStatus error for a non-2xx response.
func StatusError(code int) *Error {
	return &Error{Kind: KindHTTPStatus, Code: code}
}

// classify maps a round-trip error onto the taxonomy. Timeout is checked
// before cancellation so a deadline never masquerades as a caller abort.
func classify(err error) *Error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) || isNetTimeout(err):
		return &Error{Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCanceled, Err: err}
	case isTLSError(err):
		return &Error{Kind: KindTLS, Err: err}
	default:
		return &Error{Kind: KindConnect, Err: err}
	}
}

func isNetTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isTLSError(err error) bool {
	var (
		recordErr tls.RecordHeaderError
		certErr   *tls.CertificateVerificationError
	)
	return errors.As(err, &recordErr) || errors.As(err, &certErr)
}
