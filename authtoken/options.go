package authtoken

import (
	"time"

	"resty.dev/v3"
)

type Option func(*Client)

func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *Client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

func WithScope(scope string) Option {
	return func(c *Client) {
		c.scope = scope
	}
}
