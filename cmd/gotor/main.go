// Command gotor reads a .torrent file, talks BEP-15 UDP to the
// trackers it names, and prints the result: the swarm's peer list for
// "announce", or seeder/leecher/completed counts for "scrape".
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gotor",
		Short: "A BitTorrent tracker client",
		Long:  "gotor announces or scrapes a .torrent file's trackers over BEP-15 UDP.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newAnnounceCmd())
	rootCmd.AddCommand(newScrapeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(errors.Wrap(err, "gotor"))
	}
}

// configureLogging sets up the package-level logrus logger. Library
// packages (bencode, metainfo, tracker) never log; only this command
// boundary does.
func configureLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
