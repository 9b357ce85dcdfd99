package main

import (
	"context"
	"errors"
	"fmt"

	"momo-bridge/internal/adapter/momo"
	"momo-bridge/internal/core/domain"
)

func init() {
	const long = `
Runs init then confirm. If confirm fails the reservation is printed so the
transfer can be checked in history before retrying.
`
	if _, err := parser.AddCommand("send", "Send money to another wallet", long, &cmdSend{}); err != nil {
		panic(err)
	}
}

type cmdSend struct {
	contextOptions
	Password string `long:"password" env:"PASSWORD" description:"Six digit wallet PIN"`
	To       string `long:"to" description:"Receiver phone number"`
	Name     string `long:"name" description:"Receiver name as shown by the receiver command"`
	Amount   int64  `long:"amount" description:"Amount in VND"`
	Comment  string `long:"comment" description:"Message shown to the receiver"`
}

func (c *cmdSend) Execute([]string) error {
	sc, err := c.sessionContext()
	if err != nil {
		return err
	}
	switch {
	case c.Password == "":
		return fmt.Errorf("missing --password/PASSWORD")
	case c.To == "":
		return fmt.Errorf("missing --to")
	case c.Amount <= 0:
		return fmt.Errorf("--amount must be positive")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	result, err := client.SendMoney(context.Background(), sc, domain.TransferRequest{
		PartnerID:   c.To,
		PartnerName: c.Name,
		Amount:      c.Amount,
		Comment:     c.Comment,
	}, c.Password)
	if err != nil {
		var pendingErr *momo.PendingTransferError
		if errors.As(err, &pendingErr) {
			_ = printJSON(map[string]any{"unconfirmed": pendingErr.Pending})
		}
		return err
	}
	return printJSON(result)
}
