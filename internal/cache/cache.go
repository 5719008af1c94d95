// Package cache holds extracted job-description keywords between analyses so
// repeat runs against the same posting skip redundant keyword work.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/util"
)

const keyPrefix = "job_keywords_"

// Store is a TTL-bounded keyword cache keyed by job description content.
type Store interface {
	GetKeywords(jobDescription string) ([]string, bool)
	SetKeywords(jobDescription string, keywords []string)
	RemoveKeywords(jobDescription string)
}

// Key derives the cache key for a job description. Equal descriptions map to
// the same key regardless of length.
func Key(jobDescription string) string {
	return keyPrefix + util.Fingerprint(jobDescription)
}

type memoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore builds an in-process keyword store. Entries expire after ttl
// and are swept at twice that interval.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &memoryStore{c: gocache.New(ttl, 2*ttl)}
}

func (s *memoryStore) GetKeywords(jobDescription string) ([]string, bool) {
	v, ok := s.c.Get(Key(jobDescription))
	if !ok {
		return nil, false
	}
	kw, ok := v.([]string)
	return kw, ok
}

func (s *memoryStore) SetKeywords(jobDescription string, keywords []string) {
	s.c.Set(Key(jobDescription), keywords, gocache.DefaultExpiration)
}

func (s *memoryStore) RemoveKeywords(jobDescription string) {
	s.c.Delete(Key(jobDescription))
}
