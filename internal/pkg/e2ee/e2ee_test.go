package e2ee

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPairDerivesSamePublicKey(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	pub, err := DerivePublicKey(kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, pub)
	assert.NoError(t, ValidatePublicKey(kp.PublicKey))
}

func TestEncryptDecryptBetweenTwoParties(t *testing.T) {
	alice, err := GenerateKeyPair()
	require.NoError(t, err)
	bob, err := GenerateKeyPair()
	require.NoError(t, err)

	sealed, err := Encrypt("hello bob", bob.PublicKey, alice.SecretKey)
	require.NoError(t, err)
	assert.NoError(t, ValidateNonce(sealed.Nonce))

	// bob opens with alice's public key, alice can open her own copy with bob's
	plain, err := Decrypt(sealed.Ciphertext, sealed.Nonce, alice.PublicKey, bob.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", plain)

	plain, err = Decrypt(sealed.Ciphertext, sealed.Nonce, bob.PublicKey, alice.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", plain)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	alice, _ := GenerateKeyPair()
	bob, _ := GenerateKeyPair()
	mallory, _ := GenerateKeyPair()

	sealed, err := Encrypt("secret", bob.PublicKey, alice.SecretKey)
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	raw[len(raw)-1] ^= 0xff
	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw), sealed.Nonce, alice.PublicKey, bob.SecretKey)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = Decrypt(sealed.Ciphertext, sealed.Nonce, alice.PublicKey, mallory.SecretKey)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptValidatesInput(t *testing.T) {
	kp, _ := GenerateKeyPair()

	_, err := Encrypt("", kp.PublicKey, kp.SecretKey)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = Encrypt("x", "", kp.SecretKey)
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = Encrypt("x", "not-base64!", kp.SecretKey)
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.ErrorIs(t, ValidateNonce(base64.StdEncoding.EncodeToString(make([]byte, 12))), ErrInvalidNonce)
}

func TestNormalizeFixesStalePublicKey(t *testing.T) {
	kp, _ := GenerateKeyPair()
	other, _ := GenerateKeyPair()

	same, changed, err := Normalize(kp)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, kp, same)

	fixed, changed, err := Normalize(KeyPair{PublicKey: other.PublicKey, SecretKey: kp.SecretKey})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, kp.PublicKey, fixed.PublicKey)

	_, _, err = Normalize(KeyPair{})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestBackupRoundTrip(t *testing.T) {
	kp, _ := GenerateKeyPair()

	backup, err := ExportBackup(kp.SecretKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backup, BackupPrefix))

	restored, err := ImportBackup("  " + backup + "\n")
	require.NoError(t, err)
	assert.Equal(t, kp, restored)

	// prefix is optional
	restored, err = ImportBackup(strings.TrimPrefix(backup, BackupPrefix))
	require.NoError(t, err)
	assert.Equal(t, kp, restored)
}

func TestImportBackupRejectsBadInput(t *testing.T) {
	kp, _ := GenerateKeyPair()
	v2 := base64.StdEncoding.EncodeToString([]byte(`{"version":2,"secretKey":"` + kp.SecretKey + `"}`))
	noKey := base64.StdEncoding.EncodeToString([]byte(`{"version":1}`))

	for name, input := range map[string]string{
		"empty":       "   ",
		"not base64":  BackupPrefix + "%%%",
		"not json":    base64.StdEncoding.EncodeToString([]byte("nope")),
		"bad version": v2,
		"no key":      noKey,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ImportBackup(input)
			assert.ErrorIs(t, err, ErrInvalidBackup)
		})
	}
}
