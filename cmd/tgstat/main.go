// Command tgstat retrieves speed and line statistics from a
// Technicolor/iiNet TGiiNet-1 modem's web interface.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dslstats/tgstat/internal/config"
	"github.com/dslstats/tgstat/internal/gateway"
	"github.com/dslstats/tgstat/internal/stats"
)

var (
	flagConfig string
	flagDebug  bool
	flagJSON   bool
	flagParse  string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tgstat",
		Short: "Dump DSL line statistics from a TGiiNet-1 modem",
		Long: `Retrieves speed and other statistics from a Technicolor/iinet
TGiiNet-1 modem. Configure the modem address and credentials in
tgstat.yaml.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "path to the config file")
	cmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging (includes raw handshake values)")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "JSON output")
	cmd.Flags().StringVar(&flagParse, "parse", "", "parse saved HTML from a file instead of the modem")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	log := newLogger(flagDebug)

	page, err := loadPage(log)
	if err != nil {
		return err
	}
	log.Debug(page)

	st, err := stats.Parse(page)
	if err != nil {
		return err
	}

	out := st.Plain()
	if flagJSON {
		if out, err = st.JSON(); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}

// loadPage returns the diagnostics page HTML, either from a local file
// (--parse) or by authenticating with the modem and fetching it.
func loadPage(log *logrus.Logger) (string, error) {
	if flagParse != "" {
		data, err := os.ReadFile(flagParse)
		if err != nil {
			return "", fmt.Errorf("failed to read HTML file: %w", err)
		}
		return string(data), nil
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.RequireConnection(); err != nil {
		return "", err
	}

	password := cfg.Password
	if password == "" {
		if password, err = promptPassword(cfg.Username); err != nil {
			return "", err
		}
	}

	client, err := gateway.New(cfg.Address,
		gateway.Credentials{Username: cfg.Username, Password: password},
		gateway.WithLogger(log))
	if err != nil {
		return "", err
	}

	return client.FetchStats()
}

// promptPassword reads the modem password from the terminal with echo
// disabled, for configs that leave the password out.
func promptPassword(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
