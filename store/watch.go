package store

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Watch polls the index of s every interval until ctx is done, calling fn
// with the new index whenever it differs from the previous poll. The first
// poll only records the index.
func Watch(ctx context.Context, s Store, interval time.Duration, fn func(map[string]time.Time)) {
	prev, err := s.Index()
	if err != nil {
		glog.Errorf("store: watch: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			idx, err := s.Index()
			if err != nil {
				glog.Errorf("store: watch: %v", err)
				continue
			}
			if !sameIndex(prev, idx) {
				prev = idx
				fn(idx)
			}
		}
	}
}

func sameIndex(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for k, ta := range a {
		tb, ok := b[k]
		if !ok || !ta.Equal(tb) {
			return false
		}
	}
	return true
}
