// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/yamdb/internal/config"
	"github.com/carterperez-dev/yamdb/internal/core"
	"github.com/carterperez-dev/yamdb/internal/middleware"
)

const (
	claimUsername  = "username"
	claimRole      = "role"
	claimTokenType = "type"

	accessTokenType = "access"
)

// JWTManager signs the session tokens handed out by the token exchange
// and verifies them on every authenticated request.
type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	keyID      string
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKey, err := readPEMKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	keyID, err := thumbprintID(publicKey)
	if err != nil {
		return nil, err
	}

	if cfg.PublicKeyPath != "" {
		if err := checkPublicKey(cfg.PublicKeyPath, keyID); err != nil {
			return nil, err
		}
	}

	for _, k := range []jwk.Key{privateKey, publicKey} {
		if err := k.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
			return nil, fmt.Errorf("set algorithm: %w", err)
		}
		if err := k.Set(jwk.KeyIDKey, keyID); err != nil {
			return nil, fmt.Errorf("set key id: %w", err)
		}
	}
	if err := publicKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	publicJWKS := jwk.NewSet()
	if err := publicJWKS.AddKey(publicKey); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: publicJWKS,
		keyID:      keyID,
		config:     cfg,
	}, nil
}

func readPEMKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return key, nil
}

// checkPublicKey fails when the published key file does not belong to the
// signing key.
func checkPublicKey(path, wantID string) error {
	key, err := readPEMKey(path)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}

	gotID, err := thumbprintID(key)
	if err != nil {
		return err
	}
	if gotID != wantID {
		return fmt.Errorf("public key %s does not match the private key", path)
	}
	return nil
}

// thumbprintID derives the key id from the RFC 7638 thumbprint so it stays
// the same across restarts and replicas.
func thumbprintID(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("key thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum)[:16], nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}
	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privateKeyPath, private, 0o600); err != nil {
		return err
	}
	return writePEM(publicKeyPath, public, 0o644)
}

func writePEM(path string, key jwk.Key, perm os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type AccessTokenClaims struct {
	UserID   string
	Username string
	Role     string
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim(claimUsername, claims.Username).
		Claim(claimRole, claims.Role).
		Claim(claimTokenType, accessTokenType).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{Token: string(signed), ExpiresAt: expiresAt}, nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime. The
// role claim is informational; the authenticator reloads the live role.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	if kind, err := stringClaim(token, claimTokenType); err != nil || kind != accessTokenType {
		return nil, fmt.Errorf("verify token: wrong token type: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	username, err := stringClaim(token, claimUsername)
	if err != nil {
		return nil, err
	}
	role, err := stringClaim(token, claimRole)
	if err != nil {
		return nil, err
	}

	return &middleware.AccessTokenClaims{
		UserID:   subject,
		Username: username,
		Role:     role,
	}, nil
}

func stringClaim(token jwt.Token, name string) (string, error) {
	var v string
	if err := token.Get(name, &v); err != nil {
		return "", fmt.Errorf("verify token: missing %s claim: %w", name, core.ErrTokenInvalid)
	}
	return v, nil
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func (m *JWTManager) GetKeyID() string {
	return m.keyID
}

func (m *JWTManager) TTL() time.Duration {
	return m.config.AccessTokenExpire
}
