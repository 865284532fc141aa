package scraper

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"
)

// fallbackUserAgent is used only when the configured pool is empty.
const fallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// pickUserAgent draws one entry uniformly from pool.
func pickUserAgent(pool []string) string {
	if len(pool) == 0 {
		return fallbackUserAgent
	}
	return pool[rand.IntN(len(pool))]
}

// randomDuration returns a uniform duration in [lo, hi). It returns lo when
// the range is empty.
func randomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// scrollPositions lists the y offsets visited while scrolling a page of the
// given height: 1, 1+step, 1+2*step, ... below height, at most maxSteps long.
func scrollPositions(height, step, maxSteps int) []int {
	if height <= 1 || step <= 0 || maxSteps <= 0 {
		return nil
	}
	n := (height - 1 + step - 1) / step
	if n > maxSteps {
		n = maxSteps
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = 1 + i*step
	}
	return positions
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func windowSize(width, height int) string {
	return strconv.Itoa(width) + "," + strconv.Itoa(height)
}
