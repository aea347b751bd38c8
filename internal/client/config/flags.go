package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/securedrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend endpoint (default from Config)
//	-d string   path to the session database file
//	-e int      default record expiry in hours
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "base URL of the backend endpoint")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "path to the session database file")
	fs.IntVar(&cfg.DefaultExpiryHours, "e", cfg.DefaultExpiryHours, "default record expiry (hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
