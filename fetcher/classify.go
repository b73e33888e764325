package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrorKind is the fetch-layer error taxonomy from the spec: every
// transport-layer failure collapses into exactly one of these. Any
// condition not recognized by classify falls through to KindUnknown.
type ErrorKind int

const (
	KindConnectionRefused ErrorKind = iota
	KindRemoteHostClosed
	KindHostNotFound
	KindTimeout
	KindOperationCanceled
	KindSslHandshake
	KindTemporaryNetwork
	KindNetworkSession
	KindUnknownNetwork
	KindProtocolUnknown
	KindUnknown
)

// ClassifiedError pairs the original transport error with its classified
// Kind, so callers that want the raw error (for logging) still have it.
type ClassifiedError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassifiedError) Error() string {
	if e.Err == nil {
		return "fetch error"
	}
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// classify maps a transport-layer error to its ErrorKind. Order matters:
// more specific checks run before the generic net.Error / net.OpError
// fallbacks.
func classify(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{Kind: KindUnknown}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClassifiedError{Kind: KindOperationCanceled, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return &ClassifiedError{Kind: KindTimeout, Err: err}
		}
		return &ClassifiedError{Kind: KindHostNotFound, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &ClassifiedError{Kind: KindTimeout, Err: err}
		}
		if strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme") {
			return &ClassifiedError{Kind: KindProtocolUnknown, Err: err}
		}
	}

	var tlsErr tls.RecordHeaderError
	if errors.As(err, &tlsErr) {
		return &ClassifiedError{Kind: KindSslHandshake, Err: err}
	}
	var certErr *x509.CertificateInvalidError
	if errors.As(err, &certErr) {
		return &ClassifiedError{Kind: KindSslHandshake, Err: err}
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return &ClassifiedError{Kind: KindSslHandshake, Err: err}
	}
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return &ClassifiedError{Kind: KindSslHandshake, Err: err}
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED:
			return &ClassifiedError{Kind: KindConnectionRefused, Err: err}
		case syscall.ECONNRESET, syscall.EPIPE:
			return &ClassifiedError{Kind: KindRemoteHostClosed, Err: err}
		case syscall.ETIMEDOUT:
			return &ClassifiedError{Kind: KindTimeout, Err: err}
		case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
			return &ClassifiedError{Kind: KindNetworkSession, Err: err}
		default:
			return &ClassifiedError{Kind: KindUnknownNetwork, Err: err}
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return &ClassifiedError{Kind: KindTimeout, Err: err}
		}
		if strings.Contains(opErr.Error(), "connection refused") {
			return &ClassifiedError{Kind: KindConnectionRefused, Err: err}
		}
		if strings.Contains(opErr.Error(), "connection reset") {
			return &ClassifiedError{Kind: KindRemoteHostClosed, Err: err}
		}
		return &ClassifiedError{Kind: KindTemporaryNetwork, Err: err}
	}

	if strings.Contains(err.Error(), "EOF") {
		return &ClassifiedError{Kind: KindRemoteHostClosed, Err: err}
	}

	return &ClassifiedError{Kind: KindUnknown, Err: err}
}
