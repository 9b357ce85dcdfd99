package momo

import "momo-bridge/internal/core/domain"

const (
	testPhone    = "0912345678"
	testPassword = "123456"
)

// testGrant is a grant captured from a real registration; its setupKey
// decrypts to testChecksumKey.
var testGrant = domain.OtpGrant{
	OHash:    "c279b4b1023d209d2c3b01b52ceb2a6ce4b8878a5e5e4660e64bfd29dae17f62",
	SetupKey: "czpYAqMKHcPk9WY10ge/NekdmHMWFoePI+b35vvWvVWOnaWgAJysOkabCget2wxH",
}

const testChecksumKey = "66413211-96aa-4ea2-8e36-64bdbb0d23c6"

var testDevice = domain.DeviceIdentity{
	Phone:  testPhone,
	IMEI:   "abcdef12-3456-7890-abcd-ef1234567890",
	PushID: "fb007a24-eb4f-5c9f-3eb0-eb0bfc363dd9",
	RKey:   "abcdefghij",
}
