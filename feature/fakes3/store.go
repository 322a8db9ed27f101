package fakes3

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// object is a stored blob with the attributes the service echoes back.
type object struct {
	data        []byte
	contentType string
	metadata    http.Header // x-amz-meta-* headers as received
}

// bucket holds a creation timestamp and the objects stored under it.
type bucket struct {
	created time.Time
	objects map[string]*object
}

// store is the in-memory state of the fake service. All access goes through
// the mutex; handlers may run concurrently.
type store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	now     func() time.Time
}

func newStore() *store {
	return &store{
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

type bucketInfo struct {
	Name    string
	Created time.Time
}

// listBuckets returns all buckets sorted by name, the order the real
// service reports.
func (s *store) listBuckets() []bucketInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]bucketInfo, 0, len(s.buckets))
	for name, b := range s.buckets {
		out = append(out, bucketInfo{Name: name, Created: b.created})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// createBucket is idempotent: recreating an existing bucket keeps its
// contents and original creation time.
func (s *store) createBucket(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; ok {
		return
	}
	s.buckets[name] = &bucket{created: s.now().UTC(), objects: map[string]*object{}}
}

func (s *store) deleteBucket(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[name]
	if !ok {
		return errNoSuchBucket
	}
	if len(b.objects) > 0 {
		return errBucketNotEmpty
	}
	delete(s.buckets, name)
	return nil
}

func (s *store) putObject(bucketName, key string, obj *object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketName]
	if !ok {
		return errNoSuchBucket
	}
	b.objects[key] = obj
	return nil
}

func (s *store) getObject(bucketName, key string) (*object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[bucketName]
	if !ok {
		return nil, errNoSuchBucket
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, errNoSuchKey
	}
	return obj, nil
}

// deleteObject succeeds for missing keys, matching the idempotent delete
// semantics of the real service. A missing bucket is still an error.
func (s *store) deleteObject(bucketName, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketName]
	if !ok {
		return errNoSuchBucket
	}
	delete(b.objects, key)
	return nil
}

// metadataHeaders filters the x-amz-meta-* headers out of a request header
// set, preserving values verbatim.
func metadataHeaders(h http.Header) http.Header {
	out := http.Header{}
	for name, values := range h {
		if !strings.HasPrefix(strings.ToLower(name), "x-amz-meta-") {
			continue
		}
		for _, v := range values {
			out.Add(name, v)
		}
	}
	return out
}
