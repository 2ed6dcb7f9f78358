package console

import (
	"context"
	"fmt"
	"net"

	"github.com/sandevgo/simdrive/pkg/log"
	"github.com/sandevgo/simdrive/pkg/retry"
)

// Dial connects to a raw TCP console server. The simulator may still be
// booting, so establishing the connection is retried; nothing sent over the
// console ever is.
func Dial(ctx context.Context, addr string, retrier *retry.Retrier, opts ...Option) (*Stream, error) {
	logger := log.FromCtx(ctx)

	var (
		d    net.Dialer
		conn net.Conn
	)
	err := retrier.Do(ctx, func() error {
		c, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial console %s: %w", addr, err)
	}

	logger.Debug().Str("addr", addr).Msg("console connected")
	return NewStream(conn, opts...), nil
}
