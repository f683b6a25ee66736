package resilience

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/speakeralign/errors"
)

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "jobs", MaxConcurrent: 1})
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if b.InUse() != 1 {
		t.Errorf("expected 1 slot in use, got %d", b.InUse())
	}
	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}

	close(release)
	wg.Wait()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected slot after release, got %v", err)
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	time.AfterFunc(10*time.Millisecond, func() { close(release) })
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected to acquire after wait, got %v", err)
	}
}

func TestBulkhead_Defaults(t *testing.T) {
	if got := NewBulkhead(BulkheadConfig{}).MaxConcurrent(); got != 2 {
		t.Errorf("expected default of 2, got %d", got)
	}
}
