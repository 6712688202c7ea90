package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler admits the first `allow` events out of every `window`
// events. A zero ratio disables sampling (everything passes).
type ratioSampler struct {
	mu     sync.Mutex
	allow  int
	window int
	seen   int
}

func newRatioSampler(allow, window int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(allow, window)
	return s
}

// Set reconfigures the ratio and restarts the window.
func (s *ratioSampler) Set(allow, window int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if allow <= 0 || window <= 0 {
		s.allow, s.window, s.seen = 0, 0, 0
		return
	}
	if allow > window {
		allow = window
	}
	s.allow = allow
	s.window = window
	s.seen = 0
}

// Allow reports whether the current event passes sampling.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window <= 0 {
		return true
	}
	s.seen++
	if s.seen > s.window {
		s.seen = 1
	}
	return s.seen <= s.allow
}

// parseRatioSpec understands "N/M" ratios and bare "M" shorthand for
// 1-in-M. Invalid input yields the zero ratio.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil {
			return n, d
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
