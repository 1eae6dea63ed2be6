package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries an optional client-generated request id that
// the server echoes into its logs.
const RequestIDHeaderName = "x-request-id"
