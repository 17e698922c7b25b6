// Package credential hashes and verifies passwords in modular crypt format
// New hashes use scrypt in the "$scrypt$ln=,r=,p=$salt$digest" layout
// Verify also accepts bcrypt and pbkdf2-sha256 hashes so older records keep working;
// NeedsRehash flags those for an upgrade on next login
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strconv"
	"strings"

	perr "fraudscore/internal/platform/errors"

	"golang.org/x/crypto/scrypt"
)

// Scheme names a hash family
type Scheme string

// Known schemes
const (
	SchemeScrypt  Scheme = "scrypt"
	SchemeBcrypt  Scheme = "bcrypt"
	SchemePBKDF2  Scheme = "pbkdf2-sha256"
	SchemeUnknown Scheme = "unknown"
)

// Defaults match the hashes already stored by the auth flow
const (
	DefaultLogN    = 16
	DefaultR       = 8
	DefaultP       = 1
	DefaultSaltLen = 16
	DefaultKeyLen  = 32
)

// bounds applied to parameters read out of a candidate hash
const (
	maxLogN     = 20
	maxR        = 32
	maxP        = 16
	maxMemBytes = 1 << 28
	maxSaltLen  = 1024
	maxKeyLen   = 1024
)

// Hasher holds the current scheme parameters; it is safe for concurrent use
type Hasher struct {
	logN    int
	r       int
	p       int
	saltLen int
	keyLen  int
	rand    io.Reader
}

// Option configures a Hasher
type Option func(*Hasher)

// WithCost sets the scrypt cost parameters for new hashes
func WithCost(logN, r, p int) Option {
	return func(h *Hasher) { h.logN, h.r, h.p = logN, r, p }
}

// WithSaltLen sets the salt size in bytes
func WithSaltLen(n int) Option { return func(h *Hasher) { h.saltLen = n } }

// WithRand swaps the salt source; tests use it for deterministic salts
func WithRand(r io.Reader) Option { return func(h *Hasher) { h.rand = r } }

// New builds a Hasher with defaults overridden by opts
// Invalid parameters are a startup fault, not a per-request one
func New(opts ...Option) (*Hasher, error) {
	h := &Hasher{
		logN:    DefaultLogN,
		r:       DefaultR,
		p:       DefaultP,
		saltLen: DefaultSaltLen,
		keyLen:  DefaultKeyLen,
		rand:    rand.Reader,
	}
	for _, o := range opts {
		o(h)
	}
	if !scryptParamsOK(h.logN, h.r, h.p) {
		return nil, perr.Startupf("credential: scrypt cost out of range ln=%d r=%d p=%d", h.logN, h.r, h.p)
	}
	if h.saltLen < 8 || h.saltLen > maxSaltLen {
		return nil, perr.Startupf("credential: salt length %d out of range", h.saltLen)
	}
	return h, nil
}

// MustNew is New that panics, for wiring code where config was already validated
func MustNew(opts ...Option) *Hasher {
	h, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Hash derives a fresh salted scrypt hash of plaintext
// Two calls with the same input return different strings
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "credential: read salt")
	}
	sum, err := scrypt.Key([]byte(plaintext), salt, 1<<h.logN, h.r, h.p, h.keyLen)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "credential: derive key")
	}
	return fmt.Sprintf("$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		h.logN, h.r, h.p, b64Encode(salt), b64Encode(sum)), nil
}

// Verify reports whether plaintext matches candidate
// It never fails loudly: malformed, unknown or over-expensive candidates are simply false
func (h *Hasher) Verify(plaintext, candidate string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	switch Identify(candidate) {
	case SchemeScrypt:
		return verifyScrypt(plaintext, candidate)
	case SchemeBcrypt:
		return verifyBcrypt(plaintext, candidate)
	case SchemePBKDF2:
		return verifyPBKDF2(plaintext, candidate)
	default:
		return false
	}
}

// NeedsRehash reports whether candidate should be replaced by a fresh Hash
// True for every non-scrypt scheme and for scrypt hashes minted with other parameters
func (h *Hasher) NeedsRehash(candidate string) bool {
	if Identify(candidate) != SchemeScrypt {
		return true
	}
	ps, err := parseScrypt(candidate)
	if err != nil {
		return true
	}
	return ps.logN != h.logN || ps.r != h.r || ps.p != h.p || len(ps.sum) != h.keyLen
}

// Identify names the scheme of candidate from its prefix
func Identify(candidate string) Scheme {
	switch {
	case strings.HasPrefix(candidate, "$scrypt$"):
		return SchemeScrypt
	case strings.HasPrefix(candidate, "$2a$"),
		strings.HasPrefix(candidate, "$2b$"),
		strings.HasPrefix(candidate, "$2y$"):
		return SchemeBcrypt
	case strings.HasPrefix(candidate, "$pbkdf2-sha256$"):
		return SchemePBKDF2
	default:
		return SchemeUnknown
	}
}

type scryptHash struct {
	logN, r, p int
	salt, sum  []byte
}

// parseScrypt splits "$scrypt$ln=16,r=8,p=1$salt$sum"
func parseScrypt(s string) (scryptHash, error) {
	var out scryptHash
	parts := strings.Split(s, "$")
	// "", "scrypt", params, salt, sum
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return out, perr.Newf(perr.ErrorCodeValidation, "credential: malformed scrypt hash")
	}

	seen := map[string]bool{}
	for _, kv := range strings.Split(parts[2], ",") {
		k, v, found := strings.Cut(kv, "=")
		if !found || seen[k] {
			return out, perr.Newf(perr.ErrorCodeValidation, "credential: bad scrypt parameter %q", kv)
		}
		seen[k] = true
		n, err := strconv.Atoi(v)
		if err != nil {
			return out, perr.Newf(perr.ErrorCodeValidation, "credential: bad scrypt parameter %q", kv)
		}
		switch k {
		case "ln":
			out.logN = n
		case "r":
			out.r = n
		case "p":
			out.p = n
		default:
			return out, perr.Newf(perr.ErrorCodeValidation, "credential: unknown scrypt parameter %q", k)
		}
	}
	if !seen["ln"] || !seen["r"] || !seen["p"] {
		return out, perr.Newf(perr.ErrorCodeValidation, "credential: missing scrypt parameter")
	}
	if !scryptParamsOK(out.logN, out.r, out.p) {
		return out, perr.Newf(perr.ErrorCodeValidation, "credential: scrypt parameters out of range")
	}

	var err error
	if out.salt, err = b64Decode(parts[3]); err != nil || len(out.salt) == 0 || len(out.salt) > maxSaltLen {
		return out, perr.Newf(perr.ErrorCodeValidation, "credential: bad scrypt salt")
	}
	if out.sum, err = b64Decode(parts[4]); err != nil || len(out.sum) == 0 || len(out.sum) > maxKeyLen {
		return out, perr.Newf(perr.ErrorCodeValidation, "credential: bad scrypt digest")
	}
	return out, nil
}

func verifyScrypt(plaintext, candidate string) bool {
	ps, err := parseScrypt(candidate)
	if err != nil {
		return false
	}
	sum, err := scrypt.Key([]byte(plaintext), ps.salt, 1<<ps.logN, ps.r, ps.p, len(ps.sum))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(sum, ps.sum) == 1
}

func scryptParamsOK(logN, r, p int) bool {
	if logN < 1 || logN > maxLogN || r < 1 || r > maxR || p < 1 || p > maxP {
		return false
	}
	return 128*r*(1<<logN) <= maxMemBytes
}
