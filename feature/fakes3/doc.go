// Package fakes3 provides an in-memory endpoint speaking the storage
// service's wire protocol, for development and tests.
//
// The server understands virtual-hosted-style addressing (bucket name as a
// subdomain of the configured base host) and implements the operations the
// client issues: bucket listing as XML, bucket create/delete, and object
// put/get/head/delete with content type and x-amz-meta-* metadata echoed
// back. When given credentials it independently reconstructs the canonical
// signing string from each incoming request and rejects signature
// mismatches with a 403, which makes it a real check of client/server
// agreement on the canonical form rather than a stub.
//
// Run it standalone via Listen, or drive it in-process from tests:
//
//	srv := fakes3.New(fakes3.Config{BaseHost: "s3.example.test"}, creds, nil)
//	client := s3.New(creds, endpoint, s3.WithTransport(srv.InProcess()))
package fakes3
