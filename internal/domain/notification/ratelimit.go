package notification

import "context"

// RecipientRateLimiter caps how many notifications a single user receives
// per window. Implementations live in infra/ratelimit/.
type RecipientRateLimiter interface {
	// Allow reports whether another notification may be sent to the user.
	Allow(ctx context.Context, userID string) (bool, error)
}
