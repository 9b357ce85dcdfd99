package main

import (
	"fmt"
	"time"

	"momo-bridge/internal/adapter/momo"
)

func init() {
	const (
		short = "Generate a device identity for a phone"
		long  = `
Prints PHONE, IMEI, ONE_SIGNAL and R_KEY as .env lines. The identity is
bound to the registration for good, so keep it.
`
	)

	if _, err := parser.AddCommand("device", short, long, &cmdDevice{}); err != nil {
		panic(err)
	}
}

type cmdDevice struct {
	Phone string `long:"phone" env:"PHONE" description:"Wallet phone number"`

	now func() time.Time
}

func (c *cmdDevice) Execute([]string) error {
	if c.Phone == "" {
		return fmt.Errorf("missing --phone/PHONE")
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	device, err := momo.NewDevice(c.Phone, now())
	if err != nil {
		return err
	}

	fmt.Fprintf(Stdout, "PHONE=%s\nIMEI=%s\nONE_SIGNAL=%s\nR_KEY=%s\n", device.Phone, device.IMEI, device.PushID, device.RKey)
	return nil
}
