package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		Issuer:             "test",
		Audience:           "test",
	}
}

func identity() jwt2.AccessIdentity {
	return jwt2.AccessIdentity{
		AccountID: uuid.New(),
		Username:  "alice",
		FullName:  "Alice A",
		Email:     "alice@x.com",
	}
}

func TestJWTUtil_GenerateValidate(t *testing.T) {
	util, err := NewJWTUtil(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	id := identity()
	token, exp, jti, err := util.GenerateAccessToken(id)
	if err != nil || exp.IsZero() || jti == "" {
		t.Fatalf("bad generate: %v", err)
	}
	claims, err := util.ValidateAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != id.AccountID.String() {
		t.Fatalf("want %s got %s", id.AccountID, claims.Subject)
	}
	if claims.Username != "alice" || claims.FullName != "Alice A" || claims.Email != "alice@x.com" {
		t.Fatalf("identity claims lost: %+v", claims)
	}
	if claims.ID != jti {
		t.Fatalf("jti want %s got %s", jti, claims.ID)
	}
}

func TestJWTUtil_TokensAreUnique(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	uid := uuid.New()
	a, _, _, _ := util.GenerateRefreshToken(uid)
	b, _, _, _ := util.GenerateRefreshToken(uid)
	if a == b {
		t.Fatal("two refresh tokens issued back to back must differ")
	}
}

func TestJWTUtil_ValidateErrors(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	if _, err := util.ValidateAccessToken("bad"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	cfg := testConfig()
	cfg.Issuer = "wrong"
	other, _ := NewJWTUtil(cfg)
	tok, _, _, _ := other.GenerateAccessToken(identity())
	if _, err := util.ValidateAccessToken(tok); err == nil {
		t.Fatal("expected issuer error")
	}
}

func TestJWTUtil_WrongSecret(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	cfg := testConfig()
	cfg.AccessTokenSecret = "forged"
	forger, _ := NewJWTUtil(cfg)

	tok, _, _, _ := forger.GenerateAccessToken(identity())
	_, err := util.ValidateAccessToken(tok)
	if !customErrors.IsInvalidToken(err) || customErrors.IsTokenExpired(err) {
		t.Fatalf("expected plain invalid token, got %v", err)
	}
}

func TestJWTUtil_Expired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	issuer, _ := NewJWTUtil(testConfig())
	issuer.WithClock(past)
	tok, _, _, _ := issuer.GenerateAccessToken(identity())

	util, _ := NewJWTUtil(testConfig())
	_, err := util.ValidateAccessToken(tok)
	if !customErrors.IsTokenExpired(err) {
		t.Fatalf("expected expired, got %v", err)
	}
	if !customErrors.IsInvalidToken(err) {
		t.Fatal("expired must also be an invalid token")
	}
}

func TestJWTUtil_ExpiredWithForeignSignature(t *testing.T) {
	// signature is checked before expiry
	cfg := testConfig()
	cfg.AccessTokenSecret = "forged"
	forger, _ := NewJWTUtil(cfg)
	forger.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	tok, _, _, _ := forger.GenerateAccessToken(identity())

	util, _ := NewJWTUtil(testConfig())
	if _, err := util.ValidateAccessToken(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestJWTUtil_RejectedRightAfterExpiry(t *testing.T) {
	issuedAt := time.Now()
	util, _ := NewJWTUtil(testConfig())
	util.WithClock(func() time.Time { return issuedAt })
	tok, exp, _, _ := util.GenerateAccessToken(identity())

	util.WithClock(func() time.Time { return exp.Add(-time.Second) })
	if _, err := util.ValidateAccessToken(tok); err != nil {
		t.Fatalf("token before expiry must pass: %v", err)
	}

	util.WithClock(func() time.Time { return exp.Add(time.Second) })
	if _, err := util.ValidateAccessToken(tok); !customErrors.IsTokenExpired(err) {
		t.Fatalf("token 1s past expiry must be expired, got %v", err)
	}
}

func TestJWTUtil_RefreshCycle(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	uid := uuid.New()
	rTok, exp, jti, err := util.GenerateRefreshToken(uid)
	if err != nil || exp.IsZero() || jti == "" {
		t.Fatalf("bad generate: %v", err)
	}
	cl, err := util.ValidateRefreshToken(rTok)
	if err != nil || cl.Subject != uid.String() {
		t.Fatalf("validate error: %v", err)
	}
}

func TestJWTUtil_TokenKindsNotInterchangeable(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	access, _, _, _ := util.GenerateAccessToken(identity())
	refresh, _, _, _ := util.GenerateRefreshToken(uuid.New())

	if _, err := util.ValidateRefreshToken(access); err == nil {
		t.Fatal("access token must not validate as refresh token")
	}
	if _, err := util.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not validate as access token")
	}
}

func TestJWTUtil_InvalidAlg(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": "test",
		"aud": "test",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("access-secret"))
	if _, err := util.ValidateAccessToken(token); err == nil {
		t.Fatal("expected invalid alg")
	}
}

func TestJWTUtil_InvalidAudience(t *testing.T) {
	cfg := testConfig()
	util, _ := NewJWTUtil(cfg)
	otherCfg := *cfg
	otherCfg.Audience = "other"
	other, _ := NewJWTUtil(&otherCfg)
	tok, _, _, _ := other.GenerateAccessToken(identity())
	if _, err := util.ValidateAccessToken(tok); err == nil {
		t.Fatal("expected audience error")
	}
	rTok, _, _, _ := other.GenerateRefreshToken(uuid.New())
	if _, err := util.ValidateRefreshToken(rTok); err == nil {
		t.Fatal("expected audience error")
	}
}

func TestJWTUtil_MissingExpiry(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": "test",
		"aud": "test",
	}).SignedString(util.accessSecret)
	if _, err := util.ValidateAccessToken(token); err == nil {
		t.Fatal("token without exp must be rejected")
	}
}

func TestJWTUtil_NonUUIDSubject(t *testing.T) {
	util, _ := NewJWTUtil(testConfig())
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"iss": "test",
		"aud": "test",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(util.accessSecret)
	if _, err := util.ValidateAccessToken(token); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestNewJWTUtil_RequiresSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTokenSecret = ""
	if _, err := NewJWTUtil(cfg); !customErrors.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
