package momo

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"momo-bridge/pkg/apperror"
)

const (
	keySize   = 32
	keyFiller = 'x'
	letters   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// zeroIV is the IV the wallet app uses for every AES operation. A constant
// IV leaks equal plaintext prefixes; it is kept because the server expects it.
var zeroIV = make([]byte, aes.BlockSize)

// deviceIDSlices shapes an md5 hex digest into 8-4-4-4-12. The last slice
// overlaps the previous one; the server only checks the shape.
var deviceIDSlices = [][2]int{{0, 8}, {8, 12}, {12, 16}, {16, 20}, {17, 29}}

// HashSHA256 returns the lowercase hex SHA-256 of text.
func HashSHA256(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// HashMD5 returns the lowercase hex MD5 of text. Only used for device ids.
func HashMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NormalizeKey right-pads secret with 'x' and truncates it to 32 bytes.
func NormalizeKey(secret string) []byte {
	key := []byte(secret)
	if len(key) >= keySize {
		return key[:keySize]
	}
	return append(key, bytes.Repeat([]byte{keyFiller}, keySize-len(key))...)
}

// EncryptAES encrypts plaintext with AES-256-CBC/PKCS#7 under the
// normalized secret and returns base64.
func EncryptAES(plaintext, secret string) (string, error) {
	block, err := aes.NewCipher(NormalizeKey(secret))
	if err != nil {
		return "", apperror.ErrCrypto("creating cipher", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, zeroIV).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptAES reverses EncryptAES.
func DecryptAES(ciphertext, secret string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return "", apperror.ErrCrypto("decoding ciphertext", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", apperror.ErrCrypto(fmt.Sprintf("ciphertext length %d is not a multiple of the block size", len(raw)), nil)
	}

	block, err := aes.NewCipher(NormalizeKey(secret))
	if err != nil {
		return "", apperror.ErrCrypto("creating cipher", err)
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, zeroIV).CryptBlocks(out, raw)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", apperror.ErrCrypto("removing padding", err)
	}
	return string(plain), nil
}

// EncryptRSA encrypts plaintext with RSA PKCS#1 v1.5 under a PEM public key
// and returns base64. Keys copied out of env files often carry literal "\n"
// sequences instead of newlines; both forms are accepted.
func EncryptRSA(plaintext, publicKeyPEM string) (string, error) {
	pub, err := ParseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return "", err
	}

	out, err := rsa.EncryptPKCS1v15(rand.Reader, pub, []byte(plaintext))
	if err != nil {
		return "", apperror.ErrCrypto("rsa encrypt", err)
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// ParseRSAPublicKey accepts PKIX "PUBLIC KEY" and PKCS#1 "RSA PUBLIC KEY" blocks.
func ParseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	text := strings.ReplaceAll(publicKeyPEM, `\n`, "\n")
	block, _ := pem.Decode([]byte(strings.TrimSpace(text)))
	if block == nil {
		return nil, apperror.ErrCrypto("request encrypt key is not PEM", nil)
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, apperror.ErrCrypto("parsing PKCS#1 public key", err)
		}
		return pub, nil
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, apperror.ErrCrypto("parsing PKIX public key", err)
		}
		pub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, apperror.ErrCrypto(fmt.Sprintf("public key is %T, want RSA", key), nil)
		}
		return pub, nil
	default:
		return nil, apperror.ErrCrypto(fmt.Sprintf("unsupported PEM block %q", block.Type), nil)
	}
}

// RandomKey returns n letters drawn uniformly from [a-zA-Z].
func RandomKey(n int) (string, error) {
	max := big.NewInt(int64(len(letters)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", apperror.ErrCrypto("reading random source", err)
		}
		sb.WriteByte(letters[idx.Int64()])
	}
	return sb.String(), nil
}

// DeviceID derives an IMEI-like identifier from the given instant.
func DeviceID(t time.Time) string {
	return shapeDeviceID(HashMD5(strconv.FormatInt(t.UnixMilli(), 10)))
}

// PushID derives a OneSignal-like push id. The time is skewed by its own
// seconds count so it never collides with DeviceID for the same instant.
func PushID(t time.Time) string {
	ms := t.UnixMilli()
	return shapeDeviceID(HashMD5(strconv.FormatInt(ms+ms/1000, 10)))
}

func shapeDeviceID(digest string) string {
	parts := make([]string, 0, len(deviceIDSlices))
	for _, s := range deviceIDSlices {
		parts = append(parts, digest[s[0]:s[1]])
	}
	return strings.Join(parts, "-")
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding size %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding byte")
		}
	}
	return data[:len(data)-n], nil
}
