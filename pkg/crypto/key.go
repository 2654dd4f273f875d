package crypto

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

var (
	ErrPEMDecode    = errors.New("PEM decode failed")
	ErrNotRSAKey    = errors.New("public key is not an RSA key")
	ErrNotSM2Key    = errors.New("public key is not an SM2 key")
	ErrEmptyKeyData = errors.New("public key is empty")
)

// BytesToRSAPublicKey parses a PEM encoded PKIX ("PUBLIC KEY") or
// PKCS#1 ("RSA PUBLIC KEY") public key.
// The base64 body of a PKIX key without PEM armor is accepted as well.
func BytesToRSAPublicKey(b []byte) (*rsa.PublicKey, error) {
	der, blockType, err := decodeKeyBytes(b)
	if err != nil {
		return nil, err
	}
	if blockType == "RSA PUBLIC KEY" {
		return x509.ParsePKCS1PublicKey(der)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return rsaKey, nil
}

// BytesToSM2PublicKey parses a PEM encoded PKIX SM2 public key
// or the hex encoding of the uncompressed curve point (04 || X || Y).
func BytesToSM2PublicKey(b []byte) (*ecdsa.PublicKey, error) {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return nil, ErrEmptyKeyData
	}
	if !strings.HasPrefix(trimmed, "-----") {
		point, err := hex.DecodeString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("sm2 public key is neither PEM nor hex: %w", err)
		}
		return sm2.NewPublicKey(point)
	}
	der, _, err := decodeKeyBytes(b)
	if err != nil {
		return nil, err
	}
	key, err := smx509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	sm2Key, ok := key.(*ecdsa.PublicKey)
	if !ok || sm2Key.Curve.Params().Name != sm2.P256().Params().Name {
		return nil, ErrNotSM2Key
	}
	return sm2Key, nil
}

func decodeKeyBytes(b []byte) (der []byte, blockType string, err error) {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return nil, "", ErrEmptyKeyData
	}
	if block, _ := pem.Decode([]byte(trimmed)); block != nil {
		return block.Bytes, block.Type, nil
	}
	der, err = base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, "", ErrPEMDecode
	}
	return der, "PUBLIC KEY", nil
}
