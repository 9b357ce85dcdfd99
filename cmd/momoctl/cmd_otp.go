package main

import (
	"context"
	"fmt"
)

func init() {
	if _, err := parser.AddCommand("otp-request", "Ask the wallet to text an OTP", "", &cmdOTPRequest{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("otp-confirm", "Register the device with the texted OTP",
		"\nPrints the SETUP_KEY and OHASH the wallet granted.\n", &cmdOTPConfirm{}); err != nil {
		panic(err)
	}
}

type cmdOTPRequest struct {
	deviceOptions
}

func (c *cmdOTPRequest) Execute([]string) error {
	device, err := c.device()
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	sent, err := client.RequestOTP(context.Background(), device)
	if err != nil {
		return err
	}
	if !sent {
		return fmt.Errorf("wallet did not send the OTP")
	}
	return printJSON(map[string]bool{"sent": sent})
}

type cmdOTPConfirm struct {
	deviceOptions
	OTP string `long:"otp" env:"OTP" description:"Code texted by the wallet"`
}

func (c *cmdOTPConfirm) Execute([]string) error {
	device, err := c.device()
	if err != nil {
		return err
	}
	if c.OTP == "" {
		return fmt.Errorf("missing --otp/OTP")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	grant, err := client.ConfirmOTP(context.Background(), device, c.OTP)
	if err != nil {
		return err
	}
	return printJSON(grant)
}
