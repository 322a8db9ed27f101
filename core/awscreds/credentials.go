package awscreds

import (
	"crypto/hmac"
	"encoding/base64"
	"hash"
)

// Credentials holds an AWS access key pair.
// The secret key is only ever fed into the HMAC; it must not appear in logs
// or error messages.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// New creates a credential pair.
func New(accessKey, secretKey string) *Credentials {
	return &Credentials{AccessKey: accessKey, SecretKey: secretKey}
}

// Sign computes the base64-encoded HMAC of text, keyed by the secret key,
// using the supplied hash constructor (sha1.New for the S3 signing scheme).
func (c *Credentials) Sign(text string, h func() hash.Hash) string {
	mac := hmac.New(h, []byte(c.SecretKey))
	mac.Write([]byte(text))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
