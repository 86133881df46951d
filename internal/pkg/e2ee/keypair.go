package e2ee

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	// KeySize is the length of NaCl box public and secret keys.
	KeySize = 32
	// NonceSize is the length of a NaCl box nonce.
	NonceSize = 24
)

var (
	ErrMissingKey    = errors.New("e2ee: missing key")
	ErrInvalidKey    = errors.New("e2ee: invalid key")
	ErrInvalidNonce  = errors.New("e2ee: invalid nonce")
	ErrEmptyMessage  = errors.New("e2ee: empty plaintext")
	ErrDecrypt       = errors.New("e2ee: unable to decrypt")
	ErrInvalidBackup = errors.New("e2ee: invalid backup")
)

// KeyPair is a base64 encoded NaCl box key pair.
type KeyPair struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// GenerateKeyPair creates a fresh random key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("e2ee: generate key pair: %w", err)
	}
	return KeyPair{
		PublicKey: encode(pub[:]),
		SecretKey: encode(sec[:]),
	}, nil
}

// DerivePublicKey recomputes the public key belonging to a secret key.
func DerivePublicKey(secretKey string) (string, error) {
	sec, err := decodeKey(secretKey)
	if err != nil {
		return "", err
	}
	pub, err := curve25519.X25519(sec[:], curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return encode(pub), nil
}

// Normalize returns kp with its public key recomputed from the secret key.
// changed reports whether the stored public key was stale.
func Normalize(kp KeyPair) (normalized KeyPair, changed bool, err error) {
	if kp.SecretKey == "" {
		return KeyPair{}, false, ErrMissingKey
	}
	pub, err := DerivePublicKey(kp.SecretKey)
	if err != nil {
		return KeyPair{}, false, err
	}
	if pub == kp.PublicKey {
		return kp, false, nil
	}
	return KeyPair{PublicKey: pub, SecretKey: kp.SecretKey}, true, nil
}

// ValidatePublicKey checks that key decodes to exactly KeySize bytes.
func ValidatePublicKey(key string) error {
	_, err := decodeKey(key)
	return err
}

// ValidateNonce checks that nonce decodes to exactly NonceSize bytes.
func ValidateNonce(nonce string) error {
	_, err := decodeNonce(nonce)
	return err
}

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeKey(s string) (*[KeySize]byte, error) {
	if s == "" {
		return nil, ErrMissingKey
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(raw) != KeySize {
		return nil, ErrInvalidKey
	}
	var k [KeySize]byte
	copy(k[:], raw)
	return &k, nil
}

func decodeNonce(s string) (*[NonceSize]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(raw) != NonceSize {
		return nil, ErrInvalidNonce
	}
	var n [NonceSize]byte
	copy(n[:], raw)
	return &n, nil
}
