package file

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Location is a parsed storage address: either a local path or
// "s3://bucket/key".
type Location struct {
	Scheme string // "file" or "s3"
	Bucket string
	Path   string
}

func (l Location) String() string {
	if l.Scheme == "s3" {
		return "s3://" + l.Bucket + "/" + l.Path
	}
	return l.Path
}

// ParseLocation parses uri. Anything without the s3:// scheme is a local path.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}
	if !strings.HasPrefix(uri, "s3://") {
		return Location{Scheme: "file", Path: strings.TrimPrefix(uri, "file://")}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %q must be s3://bucket/key", ErrInvalidLocation, uri)
	}

	return Location{Scheme: "s3", Bucket: u.Host, Path: key}, nil
}

// Resolver maps locations to storages, creating one S3Storage per bucket on
// first use. It is safe for concurrent use.
type Resolver struct {
	local  Storage
	s3cfg  S3Config
	s3opts []S3Option

	mu      sync.Mutex
	buckets map[string]Storage
}

// NewResolver uses s3cfg (without Bucket) as the template for every bucket.
func NewResolver(local Storage, s3cfg S3Config, opts ...S3Option) *Resolver {
	if local == nil {
		local = NewLocalStorage()
	}
	return &Resolver{
		local:   local,
		s3cfg:   s3cfg,
		s3opts:  opts,
		buckets: make(map[string]Storage),
	}
}

// Resolve returns the storage responsible for uri and the path to use with it.
func (r *Resolver) Resolve(ctx context.Context, uri string) (Storage, string, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, "", err
	}
	if loc.Scheme != "s3" {
		return r.local, loc.Path, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.buckets[loc.Bucket]; ok {
		return s, loc.Path, nil
	}

	cfg := r.s3cfg
	cfg.Bucket = loc.Bucket
	s, err := NewS3Storage(ctx, cfg, r.s3opts...)
	if err != nil {
		return nil, "", err
	}
	r.buckets[loc.Bucket] = s

	return s, loc.Path, nil
}
