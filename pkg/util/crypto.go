package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// ContentCipher 笔记内容的可逆变换
// 持久化前 Seal，读取后 Open。密钥由配置密钥派生
type ContentCipher struct {
	key [32]byte
}

// NewContentCipher 从配置密钥派生内容加密器
func NewContentCipher(secret string) *ContentCipher {
	c := &ContentCipher{}
	c.key = sha256.Sum256([]byte(secret))
	return c
}

// Seal 加密并 base64 编码明文
func (c *ContentCipher) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", errors.Wrap(err, "init cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open 解码并解密密文
func (c *ContentCipher) Open(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", errors.Wrap(err, "init cipher")
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Wrap(err, "open ciphertext")
	}
	return string(plaintext), nil
}
