// Package economy is a client for the currency ledger service.
package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Currency is an amount in micro-units.
type Currency uint64

const (
	Micro Currency = 1
	Unit           = 1_000_000 * Micro
)

// Tx moves Amount (plus the ledger's fee) between two user numbers.
type Tx struct {
	From   int64    `json:"From"`
	To     int64    `json:"To"`
	Amount Currency `json:"Amount"`
	Link   string   `json:"Link"`
	Note   string   `json:"Note"`
}

// Error is a rejection reported by the ledger, e.g. insufficient balance.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5 * time.Second),
	}
}

func (c *Client) Transact(ctx context.Context, tx Tx) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(tx).
		Post("/transact")
	if err != nil {
		return fmt.Errorf("economy: transact failed: %w", err)
	}

	if resp.IsError() {
		return &Error{
			Status: resp.StatusCode(),
			Msg:    strings.TrimSpace(resp.String()),
		}
	}

	return nil
}
