package httpclient

import (
	"time"

	"go.uber.org/zap"
)

// ModifyHttpTimeout changes the timeout applied to requests sent after the call. Requests in
// flight keep the timeout they started with. It has no effect on a client built with an
// HTTPExecutor, which manages its own timeouts.
func (c *Client) ModifyHttpTimeout(newTimeout time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.config.CustomTimeout = JSONDuration(newTimeout)
	if c.config.HTTPExecutor != nil {
		c.Logger.Warn("HTTP timeout not applied to a custom HTTPExecutor", zap.Duration("timeout", newTimeout))
		return
	}

	updated := *c.http
	updated.Timeout = newTimeout
	c.http = &updated
	c.executor.SetClient(c.http)
	c.Logger.Debug("HTTP timeout modified", zap.Duration("timeout", newTimeout))
}
