// Package awscreds provides the credential and endpoint value objects used
// when building and signing storage requests.
//
// # Credentials
//
// Credentials pair an access key identifier with a secret key. The secret is
// used exclusively as the HMAC key for request signatures and is never
// included in log output or errors.
//
// # Endpoint
//
// Endpoint captures the scheme and host of the storage service, defaulting
// to the public S3 endpoint. Queries record their HTTP method on the
// endpoint at construction time, since signing depends on it.
//
// # Usage
//
//	creds := awscreds.New("AKIA...", "secret")
//	sig := creds.Sign(stringToSign, sha1.New)
package awscreds
