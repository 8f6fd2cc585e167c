package jobcache

import "errors"

// ErrJobNotFound is returned by the cache's transition methods when the
// requested job-id isn't cached, whether because it never existed
// or because it aged out of the TTL sweep or capacity eviction.
var ErrJobNotFound = errors.New("jobcache: job not found")
