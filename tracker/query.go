package tracker

import (
	"context"
	"time"
)

// MaxRetries bounds the doubling-timeout retry loop Retrying uses: it
// is the total number of CONNECT attempts. Only Connect is retried,
// since Connect is the only request-response pair that must succeed
// before Announce/Scrape become meaningful.
const MaxRetries = 8

// Retrying connects to trackerAddr, retrying the CONNECT handshake
// with a doubling receive timeout on each attempt (cfg.ReceiveTimeout
// times 2^n for attempt n, rather than BEP-15's 15*2^n seconds), then
// runs fn against the established Connection with cfg's own timeout
// restored. fn itself is not retried. The Connection is closed before
// Retrying returns.
func Retrying(ctx context.Context, trackerAddr string, cfg Config, fn func(*Connection) error) error {
	conn, err := Bind(trackerAddr, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		attemptCfg := conn.cfg
		attemptCfg.ReceiveTimeout = cfg.ReceiveTimeout * time.Duration(int64(1)<<attempt)
		conn.cfg = attemptCfg

		err := conn.Connect(ctx)
		if err == nil {
			conn.cfg = cfg
			return fn(conn)
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

// TrackerResult pairs one tracker's outcome with the tracker that
// produced it, for fan-out across a torrent's announce list.
type TrackerResult struct {
	TrackerAddr string
	Result      *AnnounceResult
	Err         error
}

// QueryAll announces infoHash to every tracker address concurrently,
// one goroutine and one Connection per tracker (each owns its own
// socket, per Connection's concurrency contract), and returns every
// result as soon as all trackers have answered or failed.
func QueryAll(ctx context.Context, trackerAddrs []string, cfg Config, infoHash [20]byte) []TrackerResult {
	results := make(chan TrackerResult, len(trackerAddrs))

	for _, addr := range trackerAddrs {
		go func(addr string) {
			var out TrackerResult
			out.TrackerAddr = addr
			err := Retrying(ctx, addr, cfg, func(c *Connection) error {
				res, err := c.Announce(ctx, AnnounceParams{InfoHash: infoHash, Event: EventStarted})
				out.Result = res
				return err
			})
			if err != nil {
				out.Err = err
			}
			results <- out
		}(addr)
	}

	all := make([]TrackerResult, 0, len(trackerAddrs))
	for range trackerAddrs {
		all = append(all, <-results)
	}
	return all
}
