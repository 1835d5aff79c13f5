package common

import (
  "crypto/aes"
  "crypto/cipher"
  "crypto/rand"
  "crypto/sha256"
  "encoding/base64"
  "errors"
  "io"
  "strings"

  "golang.org/x/crypto/pbkdf2"
)

const (
  cipherPrefix     = "enc:"
  cipherSaltSize   = 16
  cipherKeySize    = 32
  cipherIterations = 100000
)

var ErrCipherText = errors.New("malformed cipher text")

func IsEncrypted(value string) bool {
  return strings.HasPrefix(value, cipherPrefix)
}

// Encrypt seals plaintext with a key derived from secret. An empty secret
// returns plaintext unchanged.
func Encrypt(secret string, plaintext string) (string, error) {
  if secret == "" || plaintext == "" {
    return plaintext, nil
  }
  salt := make([]byte, cipherSaltSize)
  if _, err := io.ReadFull(rand.Reader, salt); err != nil {
    return "", err
  }
  gcm, err := newGCM(secret, salt)
  if err != nil {
    return "", err
  }
  nonce := make([]byte, gcm.NonceSize())
  if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
    return "", err
  }
  sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
  buf := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
  buf = append(buf, salt...)
  buf = append(buf, nonce...)
  buf = append(buf, sealed...)
  return cipherPrefix + base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt reverses Encrypt, values without the prefix pass through.
func Decrypt(secret string, value string) (string, error) {
  if !IsEncrypted(value) {
    return value, nil
  }
  if secret == "" {
    return "", errors.New("value is encrypted but no secret is configured")
  }
  buf, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, cipherPrefix))
  if err != nil {
    return "", ErrCipherText
  }
  if len(buf) < cipherSaltSize {
    return "", ErrCipherText
  }
  gcm, err := newGCM(secret, buf[:cipherSaltSize])
  if err != nil {
    return "", err
  }
  buf = buf[cipherSaltSize:]
  if len(buf) < gcm.NonceSize() {
    return "", ErrCipherText
  }
  plaintext, err := gcm.Open(nil, buf[:gcm.NonceSize()], buf[gcm.NonceSize():], nil)
  if err != nil {
    return "", err
  }
  return string(plaintext), nil
}

func newGCM(secret string, salt []byte) (cipher.AEAD, error) {
  key := pbkdf2.Key([]byte(secret), salt, cipherIterations, cipherKeySize, sha256.New)
  block, err := aes.NewCipher(key)
  if err != nil {
    return nil, err
  }
  return cipher.NewGCM(block)
}
