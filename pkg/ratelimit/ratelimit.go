package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Lock paces calls to a remote service. A caller waits for its turn to start
// and is not held back by calls already in flight.
type Lock interface {
	Wait(ctx context.Context) error
}

type lock struct {
	limiter *rate.Limiter
}

// New returns a lock that lets burst calls start at once and then one every
// d. A zero d disables pacing.
func New(d time.Duration, burst int) Lock {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if d > 0 {
		limit = rate.Every(d)
	}
	return &lock{limiter: rate.NewLimiter(limit, burst)}
}

func (l *lock) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Users limits requests per user with a per minute quota and a cooldown
// between consecutive requests.
type Users struct {
	lock      sync.Mutex
	perMinute int
	cooldown  time.Duration
	users     map[int64]*userLimit
	now       func() time.Time
}

type userLimit struct {
	window   *rate.Limiter
	cooldown *rate.Limiter
}

// NewUsers returns a per user limiter. Zero values disable the respective
// check.
func NewUsers(perMinute int, cooldown time.Duration) *Users {
	return &Users{
		perMinute: perMinute,
		cooldown:  cooldown,
		users:     map[int64]*userLimit{},
		now:       time.Now,
	}
}

// Allow reports whether the user may make a request now. An allowed request
// consumes quota.
func (u *Users) Allow(id int64) bool {
	if u == nil || (u.perMinute <= 0 && u.cooldown <= 0) {
		return true
	}
	u.lock.Lock()
	defer u.lock.Unlock()
	l, ok := u.users[id]
	if !ok {
		l = &userLimit{}
		if u.perMinute > 0 {
			l.window = rate.NewLimiter(rate.Every(time.Minute/time.Duration(u.perMinute)), u.perMinute)
		}
		if u.cooldown > 0 {
			l.cooldown = rate.NewLimiter(rate.Every(u.cooldown), 1)
		}
		u.users[id] = l
	}
	now := u.now()
	var reserved []*rate.Reservation
	for _, lim := range []*rate.Limiter{l.window, l.cooldown} {
		if lim == nil {
			continue
		}
		r := lim.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reserved {
				prev.CancelAt(now)
			}
			return false
		}
		reserved = append(reserved, r)
	}
	return true
}
