package tokencache

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Middleware wraps a Cache to add behavior.
type Middleware func(Cache) Cache

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new tokens. Must be 32 bytes (AES-256).
	ActiveKey []byte

	// FallbackKeys are tried when the active key cannot decrypt a token,
	// so keys can be rotated without dropping the cache.
	FallbackKeys [][]byte
}

// ParseKey decodes a base64 AES-256 key.
func ParseKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("token key is not base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

type encrypted struct {
	next   Cache
	config EncryptionConfig
}

// NewEncryption returns a Middleware that stores access tokens encrypted
// with AES-GCM. Expiry stays in clear so backends can still expire entries.
func NewEncryption(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	return func(next Cache) Cache {
		return &encrypted{next: next, config: config}
	}, nil
}

func (m *encrypted) Set(ctx context.Context, key string, tok Token) error {
	ciphertext, err := encrypt([]byte(tok.AccessToken), m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	tok.AccessToken = base64.StdEncoding.EncodeToString(ciphertext)
	return m.next.Set(ctx, key, tok)
}

func (m *encrypted) Get(ctx context.Context, key string) (Token, error) {
	tok, err := m.next.Get(ctx, key)
	if err != nil {
		return Token{}, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(tok.AccessToken)
	if err != nil {
		return Token{}, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return Token{}, fmt.Errorf("failed to decrypt token: %w", err)
	}
	tok.AccessToken = string(plain)
	return tok, nil
}

func (m *encrypted) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
