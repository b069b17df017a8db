package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	cases := map[int]int{
		0:   DefaultBcryptCost,
		-3:  DefaultBcryptCost,
		2:   bcrypt.MinCost,
		12:  12,
		100: bcrypt.MaxCost,
	}
	for in, want := range cases {
		if got := NewBcryptHasher(in).cost; got != want {
			t.Fatalf("cost(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if hash == "secret" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := h.Compare(hash, "secret"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := h.Compare(hash, "Secret"); err == nil {
		t.Fatalf("expected mismatch")
	}
}

func TestBcryptHasher_SaltIsRandom(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected different hashes for the same password")
	}
}

func TestBcryptHasher_DefaultCostIsTen(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(0).Hash("pw")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != 10 {
		t.Fatalf("expected cost 10, got %d (%v)", cost, err)
	}
}

func TestBcryptHasher_MalformedHash_IsMismatch(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	for _, bad := range []string{"", "plain", "$2a$10$short"} {
		if err := h.Compare(bad, "pw"); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
}

func TestBcryptHasher_TooLongPassword_HashFailed(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Fatalf("expected error for >72 byte password")
	}
}
