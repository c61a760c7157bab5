package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pekkala/gotor/tracker"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <torrent-file|magnet-link>",
		Short: "Scrape a torrent's trackers and print seeder/leecher/completed counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(args[0])
		},
	}
}

func runScrape(input string) error {
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

	trackerCfg := cfg.trackerConfig()
	ok := 0
	for _, addr := range trackerAddrs {
		log := log.WithField("tracker", addr)
		err := tracker.Retrying(context.Background(), addr, trackerCfg, func(conn *tracker.Connection) error {
			results, err := conn.Scrape(context.Background(), [][20]byte{infoHash})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return errors.New("empty scrape response")
			}
			r := results[0]
			fmt.Fprintf(os.Stdout, "%s seeders=%d leechers=%d completed=%d\n", addr, r.Seeders, r.Leechers, r.Completed)
			return nil
		})
		if err != nil {
			log.WithError(err).Warn("scrape failed")
			continue
		}
		ok++
	}
	if ok == 0 {
		return errors.New("every tracker failed")
	}
	return nil
}
