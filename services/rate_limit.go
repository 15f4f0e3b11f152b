package services

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/grouppal/grouppal/dto"
)

// RateLimitService throttles rapid media messages with a per-user fixed
// window. State is an explicit in-process map owned by this service; it is
// intentionally not persisted and resets on restart.
type RateLimitService struct {
	context.DefaultService

	mu      sync.Mutex
	windows map[int64]*rateWindow

	window    time.Duration
	maxEvents int

	now  func() time.Time
	stop chan struct{}
}

type rateWindow struct {
	count       int
	windowStart time.Time
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultRateWindow    = 60 * time.Second
	defaultRateMaxEvents = 5
)

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.windows = make(map[int64]*rateWindow)
	svc.now = time.Now
	svc.stop = make(chan struct{})

	svc.window = defaultRateWindow
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.window = time.Duration(n) * time.Second
		}
	}

	svc.maxEvents = defaultRateMaxEvents
	if v := os.Getenv("RATE_LIMIT_MAX_MEDIA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.maxEvents = n
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	go svc.startCleanupJob()
	return nil
}

func (svc *RateLimitService) Shutdown() {
	close(svc.stop)
}

// Observe records one media event for the user and decides whether it may
// be processed. The first event at or past the window boundary resets the
// window; inside the window the count keeps rising, so every event beyond
// the threshold is denied until the window rolls over.
func (svc *RateLimitService) Observe(userID int64) dto.ThrottleInfo {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := svc.now()

	w, ok := svc.windows[userID]
	if !ok || now.Sub(w.windowStart) >= svc.window {
		w = &rateWindow{count: 1, windowStart: now}
		svc.windows[userID] = w
	} else {
		w.count++
	}

	remaining := svc.maxEvents - w.count
	if remaining < 0 {
		remaining = 0
	}

	return dto.ThrottleInfo{
		Allowed:     w.count <= svc.maxEvents,
		Count:       w.count,
		Remaining:   remaining,
		WindowReset: w.windowStart.Add(svc.window),
	}
}

// ==================== BACKGROUND JOBS ====================

// Expired windows would be reset on the user's next event anyway; the
// janitor only keeps the map from holding every user id seen since boot.
func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-svc.stop:
			return
		case <-ticker.C:
			evicted := svc.evictExpired()
			if evicted > 0 {
				log.Printf("Rate limit cleanup evicted %d idle windows", evicted)
			}
		}
	}
}

func (svc *RateLimitService) evictExpired() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := svc.now()
	evicted := 0
	for userID, w := range svc.windows {
		if now.Sub(w.windowStart) >= svc.window {
			delete(svc.windows, userID)
			evicted++
		}
	}
	return evicted
}
