// Package nhl wraps the public NHL web API, used to seed the player table.
package nhl

import (
	"github.com/mcdev12/puckdraft/go/clients"
)

type Client struct {
	*clients.BaseClient
}

func NewClient() *Client {
	return &Client{
		BaseClient: clients.NewBaseClient(BaseURL),
	}
}
