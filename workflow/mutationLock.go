package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/bsm/redislock"
)

// Redis lock is a best-effort optimization around final transitions
// (complete/cancel). Reliability must not depend on Redis: the document
// store's version guard is what actually prevents lost updates.
const mutationLockTTL = 10 * time.Second

func (e *Engine) acquireMutationLock(ctx context.Context, key string) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	lock, err := locker.Obtain(ctx, "mutation:"+key, mutationLockTTL, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			// someone else is finalizing the same document right now
			return nil, utils.NewConcurrentModification("lock", key)
		}
		// Redis trouble must not block the workflow; fall through unlocked.
		config.LogError(e.Logger, "mutationLock.go", "acquireMutationLock", "Obtain", key, err)
		return nil, nil
	}
	return lock, nil
}

func (e *Engine) releaseMutationLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		config.LogError(e.Logger, "mutationLock.go", "releaseMutationLock", "Release", nil, err)
	}
}
