package domain

// DeviceIdentity is the simulated handset a wallet registration is bound to.
// It is generated once per registration and never changes afterwards.
type DeviceIdentity struct {
	Phone  string `json:"phone"`
	IMEI   string `json:"imei"`
	PushID string `json:"push_id"` // AAID / OneSignal id
	RKey   string `json:"rkey"`
}

// OtpGrant is what the server returns after a successful OTP confirmation.
// The checksum key and the password-hash key are derived from it on demand.
type OtpGrant struct {
	OHash    string `json:"ohash"`
	SetupKey string `json:"setup_key"`
}

// Valid reports whether both halves of the grant are present.
func (g OtpGrant) Valid() bool {
	return g.OHash != "" && g.SetupKey != ""
}
