package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fraudscore/internal/core/credential"
	perr "fraudscore/internal/platform/errors"
	"fraudscore/internal/platform/metrics"
	"fraudscore/internal/platform/testkit"
	"fraudscore/internal/services/credentials/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"
)

func ptr(s string) *string { return &s }

func fast(t *testing.T) *credential.Hasher {
	t.Helper()
	h, err := credential.New(credential.WithCost(4, 8, 1))
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHashThenVerify(t *testing.T) {
	m := metrics.New()
	s := New(fast(t), m, 2)
	ctx := context.Background()

	h1, err := s.Hash(ctx, domain.HashRequest{Password: ptr("secret")})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, _ := s.Hash(ctx, domain.HashRequest{Password: ptr("secret")})
	if !strings.HasPrefix(h1.Hashed, "$scrypt$ln=4,r=8,p=1$") || h1.Hashed == h2.Hashed {
		t.Fatalf("hashes %q %q", h1.Hashed, h2.Hashed)
	}

	ok, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("secret"), Hashed: ptr(h1.Hashed)})
	if err != nil || !ok.Valid {
		t.Fatalf("verify right = %+v, %v", ok, err)
	}
	bad, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("wrong"), Hashed: ptr(h1.Hashed)})
	if err != nil || bad.Valid {
		t.Fatalf("verify wrong = %+v, %v", bad, err)
	}

	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP fraudscore_credential_operations_total Hash and verify calls by result.
# TYPE fraudscore_credential_operations_total counter
fraudscore_credential_operations_total{op="hash",result="ok"} 2
fraudscore_credential_operations_total{op="verify",result="mismatch"} 1
fraudscore_credential_operations_total{op="verify",result="ok"} 1
`), "fraudscore_credential_operations_total")
	if err != nil {
		t.Fatal(err)
	}
}

func TestVerify_MalformedAndLegacy(t *testing.T) {
	s := New(fast(t), nil, 1)
	ctx := context.Background()

	for _, hashed := range []string{"", "plain", "$scrypt$ln=99,r=8,p=1$AAAA$AAAA", "$pbkdf2-sha256$x$y$z"} {
		out, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("secret"), Hashed: ptr(hashed)})
		if err != nil || out.Valid {
			t.Fatalf("%q: %+v, %v", hashed, out, err)
		}
	}

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("secret"), Hashed: ptr(string(legacy))})
	if err != nil || !out.Valid {
		t.Fatalf("bcrypt: %+v, %v", out, err)
	}
}

func TestMissingFields(t *testing.T) {
	s := New(fast(t), nil, 1)
	ctx := context.Background()
	if _, err := s.Hash(ctx, domain.HashRequest{}); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("hash err = %v", err)
	}
	if _, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("x")}); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("verify err = %v", err)
	}
}

// blockingHasher parks Hash until release is closed
type blockingHasher struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingHasher) Hash(string) (string, error) {
	b.entered <- struct{}{}
	<-b.release
	return "$scrypt$", nil
}
func (b *blockingHasher) Verify(string, string) bool { return false }
func (b *blockingHasher) NeedsRehash(string) bool    { return false }

func TestSlots_BoundConcurrentWork(t *testing.T) {
	bh := &blockingHasher{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(bh, nil, 1)

	done := make(chan error, 1)
	go func() {
		_, err := s.Hash(context.Background(), domain.HashRequest{Password: ptr("a")})
		done <- err
	}()
	<-bh.entered

	ctx := testkit.Ctx(t, 20*time.Millisecond)
	_, err := s.Verify(ctx, domain.VerifyRequest{Password: ptr("a"), Hashed: ptr("b")})
	if perr.CodeOf(err) != perr.ErrorCodeTimeout || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}

	close(bh.release)
	if err := <-done; err != nil {
		t.Fatalf("first call: %v", err)
	}
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }
func (failingHasher) Verify(string, string) bool  { return false }
func (failingHasher) NeedsRehash(string) bool     { return false }

func TestHash_Error(t *testing.T) {
	if _, err := New(failingHasher{}, nil, 1).Hash(context.Background(), domain.HashRequest{Password: ptr("a")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_NilHasher(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, 1) })
}
