package downloads

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestWaitJitter checks a zero limit skips the wait and cancellation ends it ----------------------------------------------------
func TestWaitJitter(t *testing.T) {
	if err := waitJitter(context.Background(), 0); err != nil {
		t.Fatalf("expected no error for zero limit, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitJitter(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// TestCheckBotDetection checks bot phrases are matched case-insensitively ------------------------------------------------------
func TestCheckBotDetection(t *testing.T) {
	if !checkBotDetection("https://a.com", []string{"ERROR: Sign In To Confirm you're not a bot"}) {
		t.Fatalf("expected bot detection match")
	}
	if checkBotDetection("https://a.com", []string{"ERROR: HTTP Error 404"}) {
		t.Fatalf("expected no match")
	}
}
