package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"io"

	"github.com/emmansun/gmsm/sm2"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// EncryptionType is the password transport encryption algorithm.
// Its value is sent as `passwordEncryptType`.
type EncryptionType string

const (
	EncryptionRSA  EncryptionType = "rsa"
	EncryptionSM2  EncryptionType = "sm2"
	EncryptionNone EncryptionType = "none"
)

func (t EncryptionType) Valid() bool {
	switch t {
	case EncryptionRSA, EncryptionSM2, EncryptionNone:
		return true
	}
	return false
}

var ErrNoPublicKey = errors.New("no public key configured for password encryption")

// PasswordEncrypter turns a plaintext password into the opaque ciphertext
// the platform expects in every `password` field.
// Ciphertexts are randomized: encrypting twice gives different results.
type PasswordEncrypter interface {
	Type() EncryptionType
	Encrypt(plaintext string) (string, error)
}

// NewPasswordEncrypter returns the encrypter for typ using the public key material.
// The key is ignored for EncryptionNone.
func NewPasswordEncrypter(typ EncryptionType, publicKey []byte) (PasswordEncrypter, error) {
	switch typ {
	case EncryptionRSA:
		return NewRSAEncrypter(publicKey)
	case EncryptionSM2:
		return NewSM2Encrypter(publicKey)
	case EncryptionNone:
		return NoneEncrypter{}, nil
	default:
		return nil, oidc.ErrInvalidArgument().WithDescription("unsupported password encryption type %q", typ)
	}
}

// Encrypt encrypts plaintext with the public key under the given algorithm
// and returns the base64 encoded ciphertext.
func Encrypt(plaintext string, publicKey []byte, typ EncryptionType) (string, error) {
	encrypter, err := NewPasswordEncrypter(typ, publicKey)
	if err != nil {
		return "", err
	}
	return encrypter.Encrypt(plaintext)
}

// RSAEncrypter encrypts with RSA PKCS#1 v1.5 padding.
type RSAEncrypter struct {
	key    *rsa.PublicKey
	random io.Reader
}

func NewRSAEncrypter(publicKey []byte) (*RSAEncrypter, error) {
	if len(publicKey) == 0 {
		return nil, oidc.ErrCrypto().WithParent(ErrNoPublicKey)
	}
	key, err := BytesToRSAPublicKey(publicKey)
	if err != nil {
		return nil, oidc.ErrCrypto().WithDescription("malformed RSA public key").WithParent(err)
	}
	return NewRSAEncrypterFromKey(key), nil
}

func NewRSAEncrypterFromKey(key *rsa.PublicKey) *RSAEncrypter {
	return &RSAEncrypter{key: key, random: rand.Reader}
}

func (e *RSAEncrypter) Type() EncryptionType {
	return EncryptionRSA
}

// MaxPlaintextSize is the largest message PKCS#1 v1.5 can carry with this key.
func (e *RSAEncrypter) MaxPlaintextSize() int {
	return e.key.Size() - 11
}

func (e *RSAEncrypter) Encrypt(plaintext string) (string, error) {
	msg := []byte(plaintext)
	if len(msg) > e.MaxPlaintextSize() {
		return "", oidc.ErrCrypto().WithDescription("plaintext of %d bytes exceeds the RSA block size of %d bytes", len(msg), e.MaxPlaintextSize())
	}
	cipherText, err := rsa.EncryptPKCS1v15(e.random, e.key, msg)
	if err != nil {
		return "", oidc.ErrCrypto().WithDescription("rsa encryption failed").WithParent(err)
	}
	return base64.StdEncoding.EncodeToString(cipherText), nil
}

// SM2Encrypter encrypts with SM2 public key encryption,
// ciphertext layout C1C3C2 with an uncompressed C1 point.
type SM2Encrypter struct {
	key    *ecdsa.PublicKey
	random io.Reader
}

func NewSM2Encrypter(publicKey []byte) (*SM2Encrypter, error) {
	if len(publicKey) == 0 {
		return nil, oidc.ErrCrypto().WithParent(ErrNoPublicKey)
	}
	key, err := BytesToSM2PublicKey(publicKey)
	if err != nil {
		return nil, oidc.ErrCrypto().WithDescription("malformed SM2 public key").WithParent(err)
	}
	return NewSM2EncrypterFromKey(key), nil
}

func NewSM2EncrypterFromKey(key *ecdsa.PublicKey) *SM2Encrypter {
	return &SM2Encrypter{key: key, random: rand.Reader}
}

func (e *SM2Encrypter) Type() EncryptionType {
	return EncryptionSM2
}

func (e *SM2Encrypter) Encrypt(plaintext string) (string, error) {
	cipherText, err := sm2.Encrypt(e.random, e.key, []byte(plaintext), nil)
	if err != nil {
		return "", oidc.ErrCrypto().WithDescription("sm2 encryption failed").WithParent(err)
	}
	return base64.StdEncoding.EncodeToString(cipherText), nil
}

// NoneEncrypter passes the password through unchanged.
// Only use it against deployments that explicitly disabled password encryption.
type NoneEncrypter struct{}

func (NoneEncrypter) Type() EncryptionType {
	return EncryptionNone
}

func (NoneEncrypter) Encrypt(plaintext string) (string, error) {
	return plaintext, nil
}
