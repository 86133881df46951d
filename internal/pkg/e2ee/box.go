package e2ee

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/nacl/box"
)

// Sealed is an encrypted payload as stored on a message record.
type Sealed struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Encrypt seals plaintext from the sender to the receiver with a random nonce.
func Encrypt(plaintext, receiverPublicKey, senderSecretKey string) (Sealed, error) {
	if plaintext == "" {
		return Sealed{}, ErrEmptyMessage
	}
	pub, err := decodeKey(receiverPublicKey)
	if err != nil {
		return Sealed{}, err
	}
	sec, err := decodeKey(senderSecretKey)
	if err != nil {
		return Sealed{}, err
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return Sealed{}, fmt.Errorf("e2ee: read nonce: %w", err)
	}

	out := box.Seal(nil, []byte(plaintext), &nonce, pub, sec)
	return Sealed{
		Ciphertext: encode(out),
		Nonce:      encode(nonce[:]),
	}, nil
}

// Decrypt opens a payload sealed between otherPublicKey and mySecretKey.
// Any authentication or decoding failure yields ErrDecrypt.
func Decrypt(ciphertext, nonce, otherPublicKey, mySecretKey string) (string, error) {
	if ciphertext == "" || nonce == "" {
		return "", ErrDecrypt
	}
	pub, err := decodeKey(otherPublicKey)
	if err != nil {
		return "", err
	}
	sec, err := decodeKey(mySecretKey)
	if err != nil {
		return "", err
	}
	n, err := decodeNonce(nonce)
	if err != nil {
		return "", ErrDecrypt
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecrypt
	}

	plain, ok := box.Open(nil, raw, n, pub, sec)
	if !ok || !utf8.Valid(plain) {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
