// Package cmd contains the admin app commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

var (
	ledgerPath   string
	profilesPath string
	namesPath    string
)

// flagEnv maps the persistent flags to the variables the service reads, so
// both programs see the same files.
var flagEnv = map[string]string{
	"ledger":   "BIOESTATE_LEDGER_PATH",
	"profiles": "BIOESTATE_SCAN_PROFILES_PATH",
	"names":    "BIOESTATE_NAMES_PATH",
}

var log *zap.SugaredLogger

func init() {
	rootCmd.PersistentFlags().StringVarP(&ledgerPath, "ledger", "l", "seasonal_log.csv", "Path to the ledger file.")
	rootCmd.PersistentFlags().StringVarP(&profilesPath, "profiles", "p", "zblock/profiles.yaml", "Path to the reference profiles.")
	rootCmd.PersistentFlags().StringVarP(&namesPath, "names", "n", "zblock/senders.yaml", "Path to the sender directory.")
}

var rootCmd = &cobra.Command{
	Use:               "admin",
	Short:             "Administer the bio-estate ledger",
	Version:           build,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Errorw("admin", "ERROR", err)
			log.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadEnv reads the optional .env file and applies its values to any flag
// not set on the command line.
func loadEnv(cmd *cobra.Command, args []string) error {

	// Logs go to the error stream, the output stream carries the report.
	log = logger.NewWriter("ADMIN", cmd.ErrOrStderr())

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	for name, key := range flagEnv {
		v, exists := os.LookupEnv(key)
		if !exists || cmd.Flags().Changed(name) {
			continue
		}
		if err := cmd.Flags().Set(name, v); err != nil {
			return fmt.Errorf("applying %s: %w", key, err)
		}
	}

	return nil
}

func openCore() (*scan.Core, *ledger.Ledger, error) {
	lgr, err := ledger.Open(ledgerPath)
	if err != nil {
		return nil, nil, err
	}

	profiles, err := scan.LoadProfiles(profilesPath)
	if err != nil {
		lgr.Close()
		return nil, nil, err
	}

	core := scan.NewCore(scan.Config{
		Ledger:   lgr,
		Profiles: profiles,
		EvHandler: func(v string, args ...any) {
			log.Infof(v, args...)
		},
	})

	return core, lgr, nil
}
