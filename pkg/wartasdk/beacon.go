package wartasdk

import (
	"context"
	"time"
)

// DefaultBeaconInterval keeps a session comfortably inside the server's
// 45 second online window even when one heartbeat is lost.
const DefaultBeaconInterval = 20 * time.Second

// Beacon is the client-side heartbeat loop. It periodically calls Heartbeat
// for one session until stopped or until the server reports the session gone.
type Beacon struct {
	Session  *Session
	ID       string // session id being kept alive
	Interval time.Duration

	// OnExpired is invoked once when the server reports the session no
	// longer exists (Alive=false). The loop stops after calling it.
	// Optional; typically used to trigger a re-login.
	OnExpired func()

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBeacon creates a heartbeat loop with the default interval.
// If interval is 0 or negative, defaults to DefaultBeaconInterval.
func NewBeacon(session *Session, sessionID string) *Beacon {
	return &Beacon{
		Session:  session,
		ID:       sessionID,
		Interval: DefaultBeaconInterval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background heartbeat loop. Non-blocking; call Stop to
// shut it down. The first heartbeat fires immediately.
func (b *Beacon) Start(ctx context.Context) {
	if b.Interval <= 0 {
		b.Interval = DefaultBeaconInterval
	}
	go b.run(ctx)
}

// Stop shuts down the loop and blocks until it has finished any
// in-progress heartbeat. Safe to call after the loop stopped itself.
func (b *Beacon) Stop() {
	select {
	case <-b.stopCh:
	default:
		close(b.stopCh)
	}
	<-b.doneCh
}

func (b *Beacon) run(ctx context.Context) {
	defer close(b.doneCh)

	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	if !b.beat(ctx) {
		return
	}

	for {
		select {
		case <-ticker.C:
			if !b.beat(ctx) {
				return
			}
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// beat sends one heartbeat. Returns false when the loop should stop.
// Transient errors (network, 503) keep the loop running; only a definitive
// "session gone" answer ends it.
func (b *Beacon) beat(ctx context.Context) bool {
	resp, err := b.Session.Heartbeat(ctx, b.ID)
	if err != nil {
		return true
	}

	if !resp.Alive {
		if b.OnExpired != nil {
			b.OnExpired()
		}
		return false
	}

	return true
}
