package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKeyDeterministic(t *testing.T) {
	jd := "Senior Go engineer with PostgreSQL experience"
	if Key(jd) != Key(jd) {
		t.Fatal("same description produced different keys")
	}
	if Key(jd) == Key(jd+" and AWS") {
		t.Fatal("different descriptions produced the same key")
	}
	if !strings.HasPrefix(Key(jd), "job_keywords_") {
		t.Fatalf("key missing prefix: %q", Key(jd))
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	jd := "Backend role requiring Go and Kafka"

	if _, ok := s.GetKeywords(jd); ok {
		t.Fatal("unexpected hit on empty store")
	}

	s.SetKeywords(jd, []string{"Go", "Kafka"})
	kw, ok := s.GetKeywords(jd)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if len(kw) != 2 || kw[0] != "Go" || kw[1] != "Kafka" {
		t.Fatalf("keywords = %v", kw)
	}

	if _, ok := s.GetKeywords("a different posting"); ok {
		t.Fatal("hit for a different description")
	}

	s.RemoveKeywords(jd)
	if _, ok := s.GetKeywords(jd); ok {
		t.Fatal("hit after remove")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	s.SetKeywords("jd", []string{"Go"})
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.GetKeywords("jd"); ok {
		t.Fatal("entry survived past ttl")
	}
}
