package tracker

import (
	"context"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/logger"
)

// Connectivity decides whether writes go to the store or the queue.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Pinger is satisfied by storage.Provider.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports online when the store answers a ping in time.
type PingCheck struct {
	pinger       Pinger
	timeout      time.Duration
	forceOffline bool
}

func NewPingCheck(pinger Pinger, forceOffline bool) *PingCheck {
	return &PingCheck{pinger: pinger, timeout: constants.PingTimeout, forceOffline: forceOffline}
}

func (c *PingCheck) Online(ctx context.Context) bool {
	if c.forceOffline || c.pinger == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.pinger.Ping(ctx); err != nil {
		logger.Debug("Store unreachable, working offline", "error", err)
		return false
	}
	return true
}

// Always is a fixed connectivity answer.
type Always bool

func (a Always) Online(context.Context) bool { return bool(a) }
