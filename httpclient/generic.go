//nolint:ireturn
package httpclient

import (
	"context"
)

func GetJSON[T any](ctx context.Context, c *Client, route string, opts ...RequestOption) (T, error) {
	return doJSON[T](ctx, c, VerbGet, route, opts...)
}

func PostJSON[T any](ctx context.Context, c *Client, route string, opts ...RequestOption) (T, error) {
	return doJSON[T](ctx, c, VerbPost, route, opts...)
}

func PutJSON[T any](ctx context.Context, c *Client, route string, opts ...RequestOption) (T, error) {
	return doJSON[T](ctx, c, VerbPut, route, opts...)
}

func DeleteJSON[T any](ctx context.Context, c *Client, route string, opts ...RequestOption) (T, error) {
	return doJSON[T](ctx, c, VerbDelete, route, opts...)
}

func doJSON[T any](ctx context.Context, c *Client, verb Verb, route string, opts ...RequestOption) (T, error) {
	var result T

	resp, err := c.request(ctx, verb, route, opts...)
	if err != nil {
		return result, err
	}

	return Decode[T](resp)
}
