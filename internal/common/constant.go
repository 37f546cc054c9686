// Package common contains constants and sentinel errors shared by the cinepass
// client and the development server.
package common

const (
	// AuthorizationHeader carries the bearer credential on HTTP requests.
	AuthorizationHeader = "Authorization"

	// AuthorizationMetadataKey is the gRPC metadata key for the bearer credential.
	// gRPC metadata keys are always lower case.
	AuthorizationMetadataKey = "authorization"

	// BearerScheme prefixes every access token sent to the backend.
	BearerScheme = "Bearer"

	// SuccessCode is the envelope code the backend uses for a successful call.
	SuccessCode = 200
)
