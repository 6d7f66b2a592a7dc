// Package ratelimit paces outbound requests to the wallpaper gallery.
//
// Two algorithms are available behind the Limiter interface:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Allows a burst followed by a pause
//   - Default strategy
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Smoother pacing for steady request patterns
//
// Usage:
//
//	limiter, err := ratelimit.New(&cfg.RateLimit)
//	if err != nil {
//	    return err
//	}
//
//	// Block until allowed, or until ctx is cancelled
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
