package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/screa/vanity-market/internal/config"
	logpkg "github.com/screa/vanity-market/internal/logger"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vanity-market",
		Short: "Vanity address difficulty engine and local provider",
		Long: `Estimate how hard a set of vanity address patterns is to satisfy,
rank found addresses by rarity, verify provider proofs and search a request locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.PersistentFlags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Logging interval in seconds")

	rootCmd.AddCommand(
		newEstimateCmd(),
		newMatchCmd(),
		newMineCmd(),
		newVerifyCmd(),
		newResultsCmd(),
	)
	return rootCmd
}

// addOrderFlags registers the ways a command can be given a pattern set
func addOrderFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.OrderFile, "order", "o", "", "Order file (YAML or JSON) with publicKey, problems and duration")
	fs.StringVarP(&cfg.Prefix, "prefix", "p", "", "Custom prefix, 0x followed by hex")
	fs.StringVarP(&cfg.Suffix, "suffix", "s", "", "Custom suffix, hex")
	fs.StringVarP(&cfg.Mask, "mask", "m", "", "Custom mask, 40 characters of hex or x")
	fs.IntVar(&cfg.Leading, "leading", 0, "Run of identical leading characters")
	fs.IntVar(&cfg.Trailing, "trailing", 0, "Run of identical trailing characters")
	fs.IntVar(&cfg.Letters, "letters", 0, "Minimum number of a-f letters")
	fs.BoolVar(&cfg.Numbers, "numbers", false, "Digits only")
	fs.IntVar(&cfg.Snake, "snake", 0, "Minimum number of equal adjacent pairs")
}

// addNetworkFlags registers the assumed provider network
func addNetworkFlags(fs *pflag.FlagSet) {
	fs.IntVar(&cfg.Providers, "providers", config.DefaultProviders, "Number of providers searching a request")
	fs.Float64Var(&cfg.ProviderRate, "provider-rate", config.DefaultProviderRate, "Hashes per second of one provider")
	fs.StringVarP(&cfg.Duration, "duration", "d", config.DefaultDuration, "Search duration: 30m, 2h, 1d")
}

func addKeyFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.PublicKey, "public-key", "k", "", "Request key: 0x-prefixed uncompressed public key or xpub")
	fs.StringVar(&cfg.KeyType, "key-type", "", "publicKey or xpub (default: detected from the key)")
}

func setupLogging() error {
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
	logger.SetVerbose(cfg.Verbose)
	return nil
}
