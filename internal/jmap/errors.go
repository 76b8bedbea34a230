package jmap

import "fmt"

// DiscoveryErrorKind classifies why discovery failed.
type DiscoveryErrorKind int

const (
	// DiscoveryUnreachable means the well-known URL could not be fetched at
	// the transport level.
	DiscoveryUnreachable DiscoveryErrorKind = iota
	// DiscoveryUnauthorized means the server rejected the credentials.
	DiscoveryUnauthorized
	// DiscoveryMalformed means the response did not parse or lacks the mail
	// capability.
	DiscoveryMalformed
)

func (k DiscoveryErrorKind) String() string {
	switch k {
	case DiscoveryUnreachable:
		return "unreachable"
	case DiscoveryUnauthorized:
		return "unauthorized"
	case DiscoveryMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type DiscoveryError struct {
	Kind DiscoveryErrorKind
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed (%s): %v", e.Kind, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// TransportError means the batch request never produced a usable response:
// connection failure, timeout, or a cancelled context.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means a response arrived but violates the protocol: an
// unparseable body, an unexpected status, or broken call-id correlation.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

// MethodError is a well-formed error the server reported for a single
// method call.
type MethodError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (e *MethodError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("method error: %s", e.Type)
	}
	return fmt.Sprintf("method error: %s (%s)", e.Type, e.Description)
}
