package main

import (
	"context"
	"fmt"

	"momo-bridge/internal/core/domain"
)

func init() {
	const long = `
Prints the session. Export auth_token as AUTH_TOKEN and
request_encrypt_key as ENCRYPT_KEY for the authenticated commands.
`
	if _, err := parser.AddCommand("login", "Log in with the wallet PIN", long, &cmdLogin{}); err != nil {
		panic(err)
	}
}

type cmdLogin struct {
	deviceOptions
	grantOptions
	Password string `long:"password" env:"PASSWORD" description:"Six digit wallet PIN"`
}

func (c *cmdLogin) Execute([]string) error {
	device, err := c.device()
	if err != nil {
		return err
	}
	grant, err := c.grant()
	if err != nil {
		return err
	}
	if c.Password == "" {
		return fmt.Errorf("missing --password/PASSWORD")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	result, err := client.Login(context.Background(), domain.Credentials{
		Device:   device,
		Grant:    grant,
		Password: c.Password,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}
