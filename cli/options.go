package cli

import (
	"fmt"
	"reflect"
	"time"

	"github.com/alecthomas/kong"

	"go.hackfix.me/weave/app/config"
	"go.hackfix.me/weave/xtime"
)

// TokenLifetimeMapper decodes the validity period of an issued token. The value
// is either a duration relative to the current time, or the RFC 3339 timestamp
// the token expires at. Token expiration is encoded with second precision, and
// must be at least config.MinTokenLifetime away.
type TokenLifetimeMapper struct {
	timeSource xtime.Source
}

var _ kong.Mapper = (*TokenLifetimeMapper)(nil)

// Decode implements the kong.Mapper interface.
func (tm *TokenLifetimeMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	if err := kctx.Scan.PopValueInto("lifetime", &value); err != nil {
		return err
	}

	lifetime, err := tm.lifetime(value)
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(lifetime))

	return nil
}

func (tm *TokenLifetimeMapper) lifetime(value string) (time.Duration, error) {
	now := tm.timeSource.Now().UTC().Truncate(time.Second)

	var lifetime time.Duration
	if expiresAt, err := time.Parse(time.RFC3339, value); err == nil {
		lifetime = expiresAt.Truncate(time.Second).Sub(now)
		if lifetime <= 0 {
			return 0, fmt.Errorf("expiration time is in the past: %s", value)
		}
	} else {
		lifetime, err = xtime.ParsePositiveDuration(value)
		if err != nil {
			return 0, err
		}
	}

	if lifetime < config.MinTokenLifetime {
		return 0, fmt.Errorf("token lifetime must be at least %s, got %s",
			xtime.FormatDuration(config.MinTokenLifetime), xtime.FormatDuration(lifetime))
	}

	return lifetime, nil
}
