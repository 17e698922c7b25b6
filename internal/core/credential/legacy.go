package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	bcryptMaxLen     = 72
	maxPBKDF2Rounds  = 10_000_000
	bcryptMinHashLen = len("$2b$31$")
	// 2^15 rounds already takes seconds; nothing above it is a real stored hash
	maxBcryptCost = 15
)

// verifyBcrypt checks a $2a$/$2b$/$2y$ hash
// bcrypt only reads the first 72 bytes of a password, longer inputs are truncated the same way
func verifyBcrypt(plaintext, candidate string) bool {
	if len(candidate) < bcryptMinHashLen {
		return false
	}
	pw := []byte(plaintext)
	if len(pw) > bcryptMaxLen {
		pw = pw[:bcryptMaxLen]
	}
	cost, err := bcrypt.Cost([]byte(candidate))
	if err != nil || cost > maxBcryptCost {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(candidate), pw) == nil
}

// verifyPBKDF2 checks "$pbkdf2-sha256$rounds$salt$sum"
func verifyPBKDF2(plaintext, candidate string) bool {
	parts := strings.Split(candidate, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != string(SchemePBKDF2) {
		return false
	}
	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds < 1 || rounds > maxPBKDF2Rounds {
		return false
	}
	salt, err := b64Decode(parts[3])
	if err != nil || len(salt) > maxSaltLen {
		return false
	}
	want, err := b64Decode(parts[4])
	if err != nil || len(want) == 0 || len(want) > maxKeyLen {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// b64Encode is unpadded standard base64
func b64Encode(b []byte) string { return base64.RawStdEncoding.EncodeToString(b) }

// b64Decode accepts unpadded standard base64 and the "." for "+" variant used by pbkdf2 hashes
func b64Decode(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, ".", "+")
	s = strings.TrimRight(s, "=")
	return base64.RawStdEncoding.DecodeString(s)
}
