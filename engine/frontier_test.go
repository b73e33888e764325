package engine

import "testing"

func TestMemSeenSet_TestAndAdd(t *testing.T) {
	s := newMemSeenSet()

	if !s.testAndAdd("http://a.com") {
		t.Error("expected the first admission of a URL to succeed")
	}
	if s.testAndAdd("http://a.com") {
		t.Error("expected a repeat admission to fail")
	}
	if s.count() != 1 {
		t.Errorf("count() = %d, want 1", s.count())
	}
	if err := s.close(); err != nil {
		t.Errorf("close() error = %v", err)
	}
}

func TestDiskSeenSet_TestAndAddAndClose(t *testing.T) {
	s, err := newDiskSeenSet(2000)
	if err != nil {
		t.Fatalf("newDiskSeenSet() error = %v", err)
	}
	defer s.close()

	if !s.testAndAdd("http://a.com") {
		t.Error("expected the first admission to succeed")
	}
	if s.testAndAdd("http://a.com") {
		t.Error("expected a repeat admission to fail (no false negatives)")
	}
	if s.count() != 1 {
		t.Errorf("count() = %d, want 1", s.count())
	}
}

func TestDiskSeenSet_SyncsPeriodically(t *testing.T) {
	s, err := newDiskSeenSet(1000)
	if err != nil {
		t.Fatalf("newDiskSeenSet() error = %v", err)
	}
	defer s.close()
	s.syncEvery = 3

	for i := 0; i < 5; i++ {
		s.testAndAdd(string(rune('a' + i)))
	}
	if s.sinceSync >= s.syncEvery {
		t.Errorf("sinceSync = %d, want it to have been reset by a periodic sync", s.sinceSync)
	}
}

func TestNewSeenSet_PicksImplementationByCapAndForce(t *testing.T) {
	small, err := newSeenSet(10, false)
	if err != nil {
		t.Fatalf("newSeenSet(small) error = %v", err)
	}
	defer small.close()
	if _, ok := small.(*memSeenSet); !ok {
		t.Errorf("newSeenSet(10, false) = %T, want *memSeenSet", small)
	}

	large, err := newSeenSet(largeCrawlThreshold+1, false)
	if err != nil {
		t.Fatalf("newSeenSet(large) error = %v", err)
	}
	defer large.close()
	if _, ok := large.(*diskSeenSet); !ok {
		t.Errorf("newSeenSet(large, false) = %T, want *diskSeenSet", large)
	}

	forced, err := newSeenSet(10, true)
	if err != nil {
		t.Fatalf("newSeenSet(forced) error = %v", err)
	}
	defer forced.close()
	if _, ok := forced.(*diskSeenSet); !ok {
		t.Errorf("newSeenSet(10, true) = %T, want *diskSeenSet", forced)
	}
}
