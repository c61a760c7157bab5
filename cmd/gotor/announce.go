package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pekkala/gotor/magnet"
	"github.com/pekkala/gotor/metainfo"
	"github.com/pekkala/gotor/tracker"
)

func newAnnounceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "announce <torrent-file|magnet-link>",
		Short: "Announce to a torrent's trackers and print the peer list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnounce(args[0])
		},
	}
}

func runAnnounce(input string) error {
	cfg, err := ParseConfigFile(configPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	infoHash, trackerAddrs, err := resolveSource(input, cfg)
	if err != nil {
		return err
	}
	if len(trackerAddrs) == 0 {
		return errors.New("no trackers named by input or -config")
	}

	log.WithField("trackers", len(trackerAddrs)).Info("announcing")
	results := tracker.QueryAll(context.Background(), trackerAddrs, cfg.trackerConfig(), infoHash)

	ok := 0
	for _, r := range results {
		log := log.WithField("tracker", r.TrackerAddr)
		if r.Err != nil {
			log.WithError(r.Err).Warn("announce failed")
			continue
		}
		ok++
		log.Infof("interval=%ds seeders=%d leechers=%d peers=%d",
			r.Result.Interval, r.Result.Seeders, r.Result.Leechers, len(r.Result.Peers))
		for _, p := range r.Result.Peers {
			fmt.Fprintln(os.Stdout, p.String())
		}
	}
	if ok == 0 {
		return errors.New("every tracker failed")
	}
	return nil
}

// resolveSource extracts an info-hash and UDP tracker endpoint list
// from either a .torrent file path or a magnet link, falling back to
// cfg.Trackers when the source names none of its own (a magnet link
// with no "tr" params relies entirely on config-supplied trackers).
func resolveSource(input string, cfg Config) ([20]byte, []string, error) {
	if strings.HasPrefix(input, "magnet:") {
		m, err := magnet.Parse(input)
		if err != nil {
			return [20]byte{}, nil, errors.Wrap(err, "parsing magnet link")
		}
		addrs := udpAddrsOf(m.TrackerAddrs)
		if len(addrs) == 0 {
			addrs = cfg.Trackers
		}
		return m.Hash, addrs, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return [20]byte{}, nil, errors.Wrapf(err, "reading torrent file %q", input)
	}
	mi, err := metainfo.Parse(data)
	if err != nil {
		return [20]byte{}, nil, errors.Wrap(err, "parsing torrent file")
	}
	hash, err := mi.Info.Hash()
	if err != nil {
		return [20]byte{}, nil, errors.Wrap(err, "computing info hash")
	}
	addrs := udpAddrsOf(mi.AnnounceURLs())
	if len(addrs) == 0 {
		addrs = cfg.Trackers
	}
	return hash, addrs, nil
}

// udpAddrsOf filters a mixed list of tracker URLs down to udp://
// endpoints in host:port form, since HTTP/HTTPS trackers are
// explicitly out of scope for this client.
func udpAddrsOf(urls []string) []string {
	var out []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "udp" {
			continue
		}
		out = append(out, u.Host)
	}
	return out
}
