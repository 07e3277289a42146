package collector

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// FailureKind buckets fetch and parse failures so call sites can decide
// between retry, skip, and fallback without string matching.
type FailureKind string

const (
	// FailureTransport covers connection and TLS level failures.
	FailureTransport FailureKind = "transport"
	// FailureHTTPStatus covers non-200 responses. Never retried.
	FailureHTTPStatus FailureKind = "http_status"
	// FailureTimeout covers deadline and network timeout failures.
	FailureTimeout FailureKind = "timeout"
	// FailureParse covers malformed XML, feed, or structured-data documents.
	FailureParse FailureKind = "parse"
	// FailureUnknown is everything else.
	FailureUnknown FailureKind = "unknown"
)

// FetchError is the typed failure returned by Fetcher implementations.
type FetchError struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FailureHTTPStatus {
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewHTTPStatusError builds a FetchError for a non-200 response.
func NewHTTPStatusError(url string, status int) *FetchError {
	return &FetchError{Kind: FailureHTTPStatus, URL: url, StatusCode: status}
}

// ClassifyFetchError wraps err in a FetchError with the kind inferred from
// the error chain.
func ClassifyFetchError(url string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Kind: classify(err), URL: url, Err: err}
}

func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if isTLSError(err) {
		return FailureTransport
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureTransport
	}
	return FailureUnknown
}

func isTLSError(err error) bool {
	var (
		recordErr   tls.RecordHeaderError
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		invalidCert x509.CertificateInvalidError
		hostErr     x509.HostnameError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &certErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostErr)
}

// IsTransport reports whether err is a transport/TLS-level fetch failure,
// the only kind eligible for the single relaxed-verification retry.
func IsTransport(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FailureTransport
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// KindOf returns the failure kind carried by err, defaulting to unknown.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return FailureParse
	}
	return FailureUnknown
}

// ParseError marks a document that could not be decoded or parsed. It is
// always contained to the single document that produced it.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrContentTooShort signals that extraction produced less text than the
// configured minimum. The candidate is discarded; this is not a run error.
var ErrContentTooShort = errors.New("extracted content too short")

// ErrNoSources is the only run-fatal configuration failure.
var ErrNoSources = errors.New("no sources configured")
