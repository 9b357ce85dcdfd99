package domain

// Session is an authenticated wallet session produced by login.
// Expiry is only ever detected through server errors.
type Session struct {
	Phone             string `json:"phone"`
	AuthToken         string `json:"auth_token"`
	RequestEncryptKey string `json:"request_encrypt_key"` // RSA public key, PEM
	RefreshToken      string `json:"refresh_token"`
}

// SessionContext bundles everything an authenticated call needs.
type SessionContext struct {
	Device  DeviceIdentity
	Grant   OtpGrant
	Session Session
}

// Credentials are the inputs to a wallet login.
type Credentials struct {
	Device   DeviceIdentity
	Grant    OtpGrant
	Password string
}

// LoginResult carries the session plus the derived values that were sent,
// which are useful when diagnosing a rejected login.
type LoginResult struct {
	Session  Session `json:"session"`
	PHash    string  `json:"phash"`
	Checksum string  `json:"checksum"`
}
