package e2ee

import (
	"encoding/base64"
	"strings"

	"github.com/goccy/go-json"
)

// BackupPrefix marks an exported key backup string.
const BackupPrefix = "CHATKEY1:"

const backupVersion = 1

type backupPayload struct {
	Version   int    `json:"version"`
	SecretKey string `json:"secretKey"`
}

// ExportBackup encodes a secret key as a portable backup string.
func ExportBackup(secretKey string) (string, error) {
	if _, err := decodeKey(secretKey); err != nil {
		return "", err
	}
	raw, err := json.Marshal(backupPayload{Version: backupVersion, SecretKey: secretKey})
	if err != nil {
		return "", err
	}
	return BackupPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// ImportBackup restores a key pair from a backup string. The prefix is optional.
func ImportBackup(backup string) (KeyPair, error) {
	s := strings.TrimSpace(backup)
	if s == "" {
		return KeyPair{}, ErrInvalidBackup
	}
	s = strings.TrimPrefix(s, BackupPrefix)

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return KeyPair{}, ErrInvalidBackup
	}
	var payload backupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return KeyPair{}, ErrInvalidBackup
	}
	if payload.Version != backupVersion || payload.SecretKey == "" {
		return KeyPair{}, ErrInvalidBackup
	}

	pub, err := DerivePublicKey(payload.SecretKey)
	if err != nil {
		return KeyPair{}, ErrInvalidBackup
	}
	return KeyPair{PublicKey: pub, SecretKey: payload.SecretKey}, nil
}
