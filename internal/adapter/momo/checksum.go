package momo

import (
	"fmt"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

const sciScale = 1_000_000_000_000 // 1e12

// checksumKey decrypts the grant's setupKey with its ohash. The same key
// signs checksums and password hashes.
func checksumKey(grant domain.OtpGrant) (string, error) {
	if !grant.Valid() {
		return "", apperror.Validation("otp grant is incomplete")
	}
	return DecryptAES(grant.SetupKey, grant.OHash)
}

// Checksum proves possession of the OTP grant for one message. ts is the
// request time in unix milliseconds and must match the body's "time" field.
func Checksum(grant domain.OtpGrant, phone string, ts int64, msgType string) (string, error) {
	key, err := checksumKey(grant)
	if err != nil {
		return "", err
	}
	return EncryptAES(checksumPlaintext(phone, ts, msgType), key)
}

// PHash encrypts "imei|password" under the grant-derived key.
func PHash(grant domain.OtpGrant, imei, password string) (string, error) {
	key, err := checksumKey(grant)
	if err != nil {
		return "", err
	}
	return EncryptAES(imei+"|"+password, key)
}

func checksumPlaintext(phone string, ts int64, msgType string) string {
	return fmt.Sprintf("%s%d000000%s%sE12", phone, ts, msgType, scientific(ts))
}

// scientific renders ts/1e12 with exactly 12 decimals using integer maths,
// e.g. 1656000000000 -> "1.656000000000".
func scientific(ts int64) string {
	return fmt.Sprintf("%d.%012d", ts/sciScale, ts%sciScale)
}
