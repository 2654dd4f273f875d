package authentication

import (
	"context"
	"log/slog"

	"github.com/zitadel/logging"
)

func (c *Client) logCtxWithClientData(ctx context.Context, function string, attrs ...any) context.Context {
	logger, ok := c.Logger(ctx)
	if !ok {
		return ctx
	}
	logger = logger.With(slog.Group("client",
		append([]any{
			"function", function,
			"app_id", c.config.AppID,
			"protocol", c.config.Protocol,
		}, attrs...)...,
	))
	return logging.ToContext(ctx, logger)
}
