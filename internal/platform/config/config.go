// Package config reads service settings from prefixed environment variables
// Must* getters panic through the root logger; May* getters warn and fall back to the default
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fraudscore/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("CORE_API_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// get returns the trimmed value, empty when unset
func (c Conf) get(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// Has reports whether key is set to something non-blank
func (c Conf) Has(key string) bool { return c.get(key) != "" }

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	return mayParse(c, key, def, strconv.Atoi)
}

// MayIntIn is MayInt bounded to [lo, hi]; out of range values warn and fall back to def
func (c Conf) MayIntIn(key string, def, lo, hi int) int {
	v := c.MayInt(key, def)
	if v < lo || v > hi {
		logger.Get().Warn().Str("key", c.key(key)).Int("value", v).Int("min", lo).Int("max", hi).
			Int("default", def).Msg("int out of range; using default")
		return def
	}
	return v
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	return mayParse(c, key, def, strconv.ParseBool)
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
// Negative durations are treated as invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return mayParse(c, key, def, func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(s)
		if err == nil && d < 0 {
			return 0, strconv.ErrRange
		}
		return d, err
	})
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.get(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayPort returns a net/http addr like ":8000"; def (a bare port number) when missing
// An invalid port panics since the listener could never bind it
func (c Conf) MayPort(key string, def int) string {
	s := c.get(key)
	if s == "" {
		s = strconv.Itoa(def)
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid TCP port; expected 1..65535")
	}
	return ":" + strconv.Itoa(p)
}

// mayParse shares the warn-and-default path of the typed May getters
func mayParse[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid value; using default")
		return def
	}
	return v
}
