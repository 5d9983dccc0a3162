package auth

import (
    "errors"
    "testing"
    "time"

    jwt "github.com/golang-jwt/jwt/v5"
)

func TestVerifyDevToken(t *testing.T) {
    v := NewVerifier("dev", "")
    p, err := v.Verify("wereda_anti_corruption:u42:lideta:7")
    if err != nil { t.Fatalf("verify: %v", err) }
    if p.Role != "wereda_anti_corruption" || p.Subject != "u42" { t.Fatalf("principal: %+v", p) }
    if p.Kifleketema != "lideta" || p.Wereda != "7" { t.Fatalf("jurisdiction: %+v", p) }

    if _, err := v.Verify("citizen"); err == nil { t.Fatal("one-part dev token should fail") }
    if _, err := v.Verify(""); !errors.Is(err, ErrNoToken) { t.Fatalf("empty token: %v", err) }
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    s, err := tok.SignedString([]byte(secret))
    if err != nil { t.Fatalf("sign: %v", err) }
    return s
}

func TestVerifyHMACToken(t *testing.T) {
    v := NewVerifier("hmac", "s3cret")
    tok := signHS256(t, "s3cret", jwt.MapClaims{
        "role":        "Kifleketema_Anti_Corruption",
        "sub":         "u7",
        "kifleketema": "bole",
        "exp":         time.Now().Add(time.Hour).Unix(),
    })
    p, err := v.Verify(tok)
    if err != nil { t.Fatalf("verify: %v", err) }
    if p.Role != "kifleketema_anti_corruption" { t.Fatalf("role not normalized: %s", p.Role) }
    if p.Subject != "u7" || p.Kifleketema != "bole" { t.Fatalf("claims: %+v", p) }
}

func TestVerifyHMACBadSignature(t *testing.T) {
    v := NewVerifier("hmac", "right")
    tok := signHS256(t, "wrong", jwt.MapClaims{"role": "citizen", "sub": "u1"})
    if _, err := v.Verify(tok); !errors.Is(err, ErrBadToken) {
        t.Fatalf("expected bad token, got %v", err)
    }
}

func TestVerifyHMACExpired(t *testing.T) {
    v := NewVerifier("hmac", "s")
    tok := signHS256(t, "s", jwt.MapClaims{"role": "citizen", "sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})
    if _, err := v.Verify(tok); err == nil { t.Fatal("expired token accepted") }
}

func TestVerifyHMACMissingRole(t *testing.T) {
    v := NewVerifier("hmac", "s")
    tok := signHS256(t, "s", jwt.MapClaims{"sub": "u1"})
    if _, err := v.Verify(tok); !errors.Is(err, ErrMissingRole) {
        t.Fatalf("expected missing role, got %v", err)
    }
}

func TestVerifyNoneModeRejects(t *testing.T) {
    v := NewVerifier("none", "")
    if _, err := v.Verify("citizen:u1"); err == nil { t.Fatal("none mode must reject") }
}
