package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Veraticus/loanwise/internal/popup"
)

// PopupText is the plain popup content for a blend.
func PopupText(b popup.Blend) string {
	return fmt.Sprintf("%s %d%% · %s", TargetIcon, b.Percent, b.Caption())
}

// ShowPopup prints the confidence popup, dims it after ttl and clears it once
// the fade finishes. It blocks until the popup is gone or ctx ends.
func ShowPopup(ctx context.Context, w io.Writer, b popup.Blend, ttl time.Duration) error {
	var mu sync.Mutex
	write := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprint(w, s)
	}

	if _, err := fmt.Fprint(w, PopupStyle.Render(PopupText(b))); err != nil {
		return fmt.Errorf("failed to write popup: %w", err)
	}

	done := make(chan struct{})
	timer := popup.StartTimer(ttl,
		func() { write("\r" + SubtleStyle.Render(PopupText(b))) },
		func() {
			write("\r\033[2K")
			close(done)
		},
	)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if timer.Stop() {
			write("\n")
		}
		return ctx.Err()
	}
}
