// Package s3 implements a client for S3-style object storage services.
//
// It is split into two layers. Client is the operation façade: one method
// per storage operation (ListBuckets, CreateBucket, DeleteBucket,
// PutObject, GetObject, HeadObject, DeleteObject). Query is the request
// builder and signer underneath: given an action, target and payload it
// deterministically computes the virtual-hosted host, resource path,
// header set and the "AWS <access-key>:<signature>" authorization header,
// then hands the finished request to the transport.
//
// # Signing
//
// The signature is an HMAC-SHA1 over the canonical string built by
// StringToSign: method, Content-MD5, Content-Type and Date lines followed
// by the sorted, lower-cased x-amz- headers and the resource path. The
// service rebuilds the identical string on its side, so header assembly
// order matters and is fixed in Query.Headers.
//
// # Concurrency
//
// A Query is created per operation, never shared, and is immutable after
// construction; header and signature computation is pure. Blocking happens
// only at the transport boundary, under the caller's context. Operations
// carry no ordering guarantees between each other; callers sequence
// dependent calls themselves (e.g. wait for CreateBucket before PutObject
// into the new bucket).
//
// # Usage
//
//	creds := awscreds.New(accessKey, secretKey)
//	client := s3.New(creds, nil)
//	err := client.PutObject(ctx, "docs", "report.pdf", data, s3.PutOptions{})
package s3
