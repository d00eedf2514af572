package common

// AuthTokenHeaderName is the HTTP header and gRPC metadata key carrying the
// bearer token on authenticated requests.
const AuthTokenHeaderName = "x-auth-token"

// RoleUser is assigned to every account created by a sign-up flow.
const RoleUser = "ROLE_USER"
