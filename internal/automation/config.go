package automation

import (
	"os"
	"strconv"
	"time"

	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// Delays holds the per-transition wait times and the global speed multiplier.
// The defaults are small on purpose: they exist to make order progress
// visibly animate in a UI, not to model real kitchen timing.
type Delays struct {
	Confirmed time.Duration
	Preparing time.Duration
	Ready     time.Duration
	Completed time.Duration
	Speed     float64
}

// DefaultDelays returns the stock configuration (3/10/20/30 seconds, 1x).
func DefaultDelays() Delays {
	return Delays{
		Confirmed: 3 * time.Second,
		Preparing: 10 * time.Second,
		Ready:     20 * time.Second,
		Completed: 30 * time.Second,
		Speed:     1,
	}
}

// DelaysFromEnv reads the configuration surface:
// ORDER_DELAY_CONFIRMED, ORDER_DELAY_PREPARING, ORDER_DELAY_READY,
// ORDER_DELAY_COMPLETED (whole seconds) and ORDER_DELAY_SPEED (multiplier;
// values <= 0 are treated as 1). Unset or malformed values keep defaults.
func DelaysFromEnv() Delays {
	d := DefaultDelays()
	d.Confirmed = envSeconds("ORDER_DELAY_CONFIRMED", d.Confirmed)
	d.Preparing = envSeconds("ORDER_DELAY_PREPARING", d.Preparing)
	d.Ready = envSeconds("ORDER_DELAY_READY", d.Ready)
	d.Completed = envSeconds("ORDER_DELAY_COMPLETED", d.Completed)
	if raw := os.Getenv("ORDER_DELAY_SPEED"); raw != "" {
		if speed, err := strconv.ParseFloat(raw, 64); err == nil {
			d.Speed = speed
		}
	}
	return d
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// For returns the wait before entering target, divided by the speed
// multiplier. Unknown targets wait the default 5 seconds.
func (d Delays) For(target string) time.Duration {
	var base time.Duration
	switch target {
	case orders.StatusConfirmed:
		base = d.Confirmed
	case orders.StatusPreparing:
		base = d.Preparing
	case orders.StatusReady:
		base = d.Ready
	case orders.StatusCompleted:
		base = d.Completed
	default:
		base = 5 * time.Second
	}
	speed := d.Speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(base) / speed)
}
