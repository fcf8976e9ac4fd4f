package config

import "time"

// RateLimitConfig drives the Redis token bucket middleware.  It is off by
// default; when enabled without a reachable Redis the middleware passes
// every request through.
type RateLimitConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Capacity       int           `koanf:"capacity"`
	RefillTokens   int           `koanf:"refill_tokens"`
	RefillInterval time.Duration `koanf:"refill_interval"`
	TTL            time.Duration `koanf:"ttl"`
	KeyStrategy    string        `koanf:"key_strategy"`
	Prefix         string        `koanf:"prefix"`
	Debug          bool          `koanf:"debug"`
}

func defaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        false,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

// normalize clamps values so the bucket script never sees a zero interval
// or a key that expires before it can refill.
func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	minTTL := 5 * r.RefillInterval
	if r.TTL < minTTL {
		r.TTL = minTTL
	}
}
