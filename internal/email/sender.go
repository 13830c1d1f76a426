package email

import (
	"context"
	"fmt"
	"time"
)

// Sender delivers a login code to an address.
type Sender interface {
	SendOTP(ctx context.Context, to string, code string, ttl time.Duration) error
}

const subject = "Your ArteZaar login code"

func body(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your one-time code is %s. It is valid for %d minutes.", code, int(ttl.Minutes()))
}
