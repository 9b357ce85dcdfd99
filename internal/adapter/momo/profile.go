package momo

import "fmt"

// AppProfile is the app build the client impersonates. Every request carries
// these values, and the server rejects builds it no longer supports.
type AppProfile struct {
	Lang        string
	AppID       string
	AppVer      int
	AppCode     string
	DeviceOS    string
	BuildNumber int
	Channel     string
	UserAgent   string

	// History overrides appId/buildNumber on transaction-history calls,
	// which are served by a separate mini-app.
	History Module

	Handset Handset
}

// Module identifies an embedded mini-app.
type Module struct {
	AppID       string
	BuildNumber int
}

// Handset is the device model reported during OTP registration.
type Handset struct {
	CountryName  string
	CountryCode  string
	Model        string
	Firmware     string
	Hardware     string
	Manufacturer string
	Carrier      string
	ICC          string
	MCC          string
	DeviceOS     string
}

// Releases holds the known app builds keyed by app code.
var Releases = map[string]AppProfile{
	"3.1.17": {
		Lang:        "vi",
		AppID:       "vn.momo.platform",
		AppVer:      31171,
		AppCode:     "3.1.17",
		DeviceOS:    "IOS",
		BuildNumber: 0,
		Channel:     "APP",
		UserAgent:   "MoMoPlatform-Release/30143 CFNetwork/1220.1 Darwin/20.3.0",
		History: Module{
			AppID:       "vn.momo.transactionhistory",
			BuildNumber: 7651,
		},
		Handset: Handset{
			CountryName:  "Vietnam",
			CountryCode:  "084",
			Model:        "iPhone 13",
			Firmware:     "15.5.1",
			Hardware:     "iPhone",
			Manufacturer: "Apple",
			Carrier:      "Viettel",
			ICC:          "",
			MCC:          "452",
			DeviceOS:     "IOS",
		},
	},
}

// DefaultRelease is the build used when none is configured.
const DefaultRelease = "3.1.17"

// LookupProfile returns the profile for release.
func LookupProfile(release string) (AppProfile, error) {
	p, ok := Releases[release]
	if !ok {
		return AppProfile{}, fmt.Errorf("unknown app release %q", release)
	}
	return p, nil
}
