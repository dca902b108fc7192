package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
)

type contextKey int

const callerKey contextKey = iota

// WithCaller returns a context carrying the authenticated invoking
// identity. The transport layer calls this after verifying the request
// signature, never before.
func WithCaller(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, callerKey, identity)
}

type service struct{}

// NewService returns an Authenticator reading the invoking identity
// established at the transport boundary.
func NewService() ports.Authenticator {
	return &service{}
}

func (s *service) Caller(ctx context.Context) (string, error) {
	identity, ok := ctx.Value(callerKey).(string)
	if !ok || len(identity) <= 0 {
		return "", domain.ErrUnauthorized
	}
	return identity, nil
}

func (s *service) RequireAuth(ctx context.Context, identity string) error {
	caller, err := s.Caller(ctx)
	if err != nil {
		return err
	}
	if caller != identity {
		return domain.ErrUnauthorized
	}
	return nil
}

// VerifySignature checks that sigHex is a valid DER-encoded ECDSA
// signature over the payload digest, made with the key behind identity.
// An identity is the hex of a compressed secp256k1 public key.
func VerifySignature(identity, sigHex string, payload []byte) error {
	pubKeyBytes, err := hex.DecodeString(identity)
	if err != nil {
		return fmt.Errorf("invalid identity format: %s", err)
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return fmt.Errorf("invalid identity format: %s", err)
	}

	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("invalid signature format: %s", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("invalid signature format: %s", err)
	}

	digest := sha256.Sum256(payload)
	if !sig.Verify(digest[:], pubKey) {
		return domain.ErrUnauthorized
	}
	return nil
}

// SignPayload produces the hex DER signature of the payload digest. It is
// the counterpart of VerifySignature, used by clients when authenticating
// their requests.
func SignPayload(privKey *btcec.PrivateKey, payload []byte) string {
	digest := sha256.Sum256(payload)
	sig := ecdsa.Sign(privKey, digest[:])
	return hex.EncodeToString(sig.Serialize())
}
