// Package e2ee implements the client-side end-to-end encryption capability
// shared by every Cipherchat client: NaCl box (Curve25519, XSalsa20-Poly1305)
// key pairs, message sealing and opening, and the portable key backup string.
//
// All keys, nonces and ciphertexts cross API boundaries as standard base64
// strings, which is also how they are stored server-side. The server never
// holds a secret key; it only uses ValidatePublicKey and ValidateNonce to
// reject malformed material before it is persisted.
//
// Backup format:
//
//	CHATKEY1:<base64(json{"version":1,"secretKey":"<base64 secret>"})>
//
// The prefix is optional on import.
package e2ee
