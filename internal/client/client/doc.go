// Package client contains the gRPC client used by the signkeeper CLI.
//
// # Overview
//
// GRPCClient manages a connection to the SignService backend, keeps the
// access token returned by Signin / SigninByProvider and injects it into
// every call through a unary interceptor. Responses are decoded into
// Account values.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors that callers can match with
// errors.Is: ErrUnauthorized, ErrUnavailable, ErrAlreadyExists and
// ErrAccountNotFound. Calls that need a token fail with ErrNotSignedIn before
// touching the network when none is held.
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
