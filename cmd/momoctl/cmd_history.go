package main

import (
	"context"
	"fmt"
	"time"

	"momo-bridge/internal/adapter/momo"
	"momo-bridge/internal/core/domain"
)

func init() {
	if _, err := parser.AddCommand("history", "Browse transaction history", "", &cmdHistory{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("detail", "Show one transaction", "", &cmdDetail{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("receiver", "Look up a transfer target", "", &cmdReceiver{}); err != nil {
		panic(err)
	}
}

type cmdHistory struct {
	Phone string `long:"phone" env:"PHONE" description:"Wallet phone number"`
	sessionOptions
	Start string `long:"start" description:"First day, DD/MM/YYYY (default: 30 days ago)"`
	End   string `long:"end" description:"Last day, DD/MM/YYYY (default: today)"`
	Page  int    `long:"page" default:"1"`
	Limit int    `long:"limit" default:"10"`
}

func (c *cmdHistory) Execute([]string) error {
	session, err := c.session(c.Phone)
	if err != nil {
		return err
	}

	now := time.Now()
	start, end := now.AddDate(0, 0, -30), now
	if c.Start != "" {
		if start, err = momo.ParseDate(c.Start); err != nil {
			return err
		}
	}
	if c.End != "" {
		if end, err = momo.ParseDate(c.End); err != nil {
			return err
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	page, err := client.BrowseHistory(context.Background(), session, domain.HistoryQuery{
		Start: start,
		End:   end,
		Page:  c.Page,
		Limit: c.Limit,
	})
	if err != nil {
		return err
	}
	return printJSON(page)
}

type cmdDetail struct {
	Phone string `long:"phone" env:"PHONE" description:"Wallet phone number"`
	sessionOptions
	ID        int64  `long:"id" description:"Transaction id"`
	ServiceID string `long:"service-id" description:"Service of the transaction (default transfer_p2p)"`
}

func (c *cmdDetail) Execute([]string) error {
	session, err := c.session(c.Phone)
	if err != nil {
		return err
	}
	if c.ID <= 0 {
		return fmt.Errorf("missing --id")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	detail, err := client.TransactionDetail(context.Background(), session, c.ID, c.ServiceID)
	if err != nil {
		return err
	}
	return printJSON(detail)
}

type cmdReceiver struct {
	contextOptions
	Target string `long:"target" description:"Phone number of the receiver"`
}

func (c *cmdReceiver) Execute([]string) error {
	sc, err := c.sessionContext()
	if err != nil {
		return err
	}
	if c.Target == "" {
		return fmt.Errorf("missing --target")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	profile, err := client.FindReceiverProfile(context.Background(), sc, c.Target)
	if err != nil {
		return err
	}
	return printJSON(profile)
}
