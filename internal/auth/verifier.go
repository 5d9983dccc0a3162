// Package auth verifies bearer tokens issued by the external auth API and
// extracts the viewer's role and jurisdiction claims.
package auth

import (
    "errors"
    "fmt"
    "strings"

    jwt "github.com/golang-jwt/jwt/v5"
)

// Principal is the verified caller identity the handlers gate on.
type Principal struct {
    Subject     string
    Role        string
    Kifleketema string
    Wereda      string
}

var (
    ErrNoToken     = errors.New("missing bearer token")
    ErrBadToken    = errors.New("invalid token")
    ErrMissingRole = errors.New("token has no role claim")
)

// Verifier validates tokens. Modes:
//   - dev:  token format role:subject[:kifleketema[:wereda]], no crypto
//   - hmac: HS256 JWT with claims role, sub, kifleketema, wereda
//   - none: reject everything (gateway disabled for auth'd traffic)
type Verifier struct {
    Mode   string
    Secret []byte
}

func NewVerifier(mode, secret string) *Verifier {
    m := strings.ToLower(strings.TrimSpace(mode))
    if m == "" { m = "dev" }
    return &Verifier{Mode: m, Secret: []byte(secret)}
}

func (v *Verifier) Verify(token string) (Principal, error) {
    token = strings.TrimSpace(token)
    if token == "" { return Principal{}, ErrNoToken }
    switch v.Mode {
    case "dev":
        parts := strings.Split(token, ":")
        if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
            return Principal{}, fmt.Errorf("%w: dev token must be role:subject", ErrBadToken)
        }
        p := Principal{Role: parts[0], Subject: parts[1]}
        if len(parts) > 2 { p.Kifleketema = parts[2] }
        if len(parts) > 3 { p.Wereda = parts[3] }
        return p, nil
    case "hmac":
        return v.verifyHS256(token)
    }
    return Principal{}, fmt.Errorf("unsupported auth mode %q", v.Mode)
}

func (v *Verifier) verifyHS256(token string) (Principal, error) {
    claims := jwt.MapClaims{}
    parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return v.Secret, nil
    })
    if err != nil || !parsed.Valid {
        return Principal{}, fmt.Errorf("%w: %v", ErrBadToken, err)
    }
    p := Principal{
        Role:        strings.ToLower(claimString(claims, "role")),
        Subject:     claimString(claims, "sub"),
        Kifleketema: claimString(claims, "kifleketema"),
        Wereda:      claimString(claims, "wereda"),
    }
    if p.Role == "" { return Principal{}, ErrMissingRole }
    return p, nil
}

func claimString(claims jwt.MapClaims, key string) string {
    if v, ok := claims[key].(string); ok { return v }
    return ""
}
