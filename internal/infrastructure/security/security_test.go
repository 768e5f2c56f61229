package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

func TestPasswords_HashAndVerify(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	hash, err := p.Hash("chila123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "chila123" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	if !p.Verify("chila123", hash) {
		t.Fatalf("expected Verify to accept original password")
	}

	for _, mutated := range []string{"chila124", "Chila123", "chila12", "chila1234"} {
		if p.Verify(mutated, hash) {
			t.Fatalf("expected Verify to reject %q", mutated)
		}
	}
}

func TestPasswords_SaltedHashesDiffer(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)
	a, _ := p.Hash("same")
	b, _ := p.Hash("same")
	if a == b {
		t.Fatalf("expected two hashes of the same input to differ")
	}
}

func TestPasswords_RejectsOver72Bytes(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	if _, err := p.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes should be accepted: %v", err)
	}
	if _, err := p.Hash(strings.Repeat("a", 73)); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestPasswords_MalformedHashIsMismatch(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)
	if p.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
}

func TestNewTokens_RequiresSecretAndTTL(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokens("secret", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestTokens_IssueAndValidate(t *testing.T) {
	tm, err := NewTokens("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	signed, issued, err := tm.Issue(domain.Claims{AccountID: 7, Email: "chilaelkin4@gmail.com", Username: "chila", App: "vanelux"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatalf("expected jti to be assigned")
	}
	if !issued.ExpiresAt.After(issued.IssuedAt) {
		t.Fatalf("expected exp after iat")
	}

	got, err := tm.Validate(signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.AccountID != 7 || got.Email != "chilaelkin4@gmail.com" || got.Username != "chila" || got.App != "vanelux" {
		t.Fatalf("unexpected claims: %+v", got)
	}
	if got.TokenID != issued.TokenID {
		t.Fatalf("jti mismatch: %s vs %s", got.TokenID, issued.TokenID)
	}
}

func TestTokens_ValidateRejectsExpired(t *testing.T) {
	tm, _ := NewTokens("secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, err := tm.Issue(domain.Claims{AccountID: 1})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tm.now = time.Now
	if _, err := tm.Validate(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokens_ValidateRejectsWrongSecret(t *testing.T) {
	a, _ := NewTokens("secret-a", time.Hour)
	b, _ := NewTokens("secret-b", time.Hour)

	signed, _, _ := a.Issue(domain.Claims{AccountID: 1})
	if _, err := b.Validate(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokens_ValidateRejectsMissingExpiry(t *testing.T) {
	tm, _ := NewTokens("secret", time.Hour)
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"email":    "a@b.c",
		"username": "a",
	})
	signed, err := legacy.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.Validate(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestTokens_ValidateRejectsGarbage(t *testing.T) {
	tm, _ := NewTokens("secret", time.Hour)
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := tm.Validate(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
