// Package cryptox seals small JSON records (credential pairs) with AES-GCM
// under a key derived from a passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize selects AES-256.
	KeySize = 32
	// SaltSize is the length of the random argon2 salt stored next to a record.
	SaltSize = 16
)

// ErrEmptyPassphrase is returned by DeriveKey when there is nothing to derive from.
var ErrEmptyPassphrase = errors.New("empty passphrase")

// DeriveKey derives a KeySize key from passphrase and salt with argon2id.
func DeriveKey(passphrase []byte, salt []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize), nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// SealJSON serializes v to JSON and encrypts it with AES-GCM. A fresh nonce
// is generated for every call and returned next to the ciphertext.
func SealJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// OpenJSON decrypts ciphertext produced by SealJSON and unmarshals it into v.
// A wrong key or a tampered record fails authentication and returns an error.
func OpenJSON(ciphertext, nonce, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aead.NonceSize() {
		return errors.New("invalid nonce size")
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
