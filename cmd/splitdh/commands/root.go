package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/f3rmion/splitdh/internal/config"
	"github.com/f3rmion/splitdh/internal/keystore"
	"github.com/f3rmion/splitdh/log"
)

// env is built by the root command before any subcommand runs.
type env struct {
	cfg        *config.Config
	passphrase string
	store      keystore.Store
	logger     log.Logger
}

// keys opens the configured key store on first use.
func (e *env) keys() (keystore.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	s, err := e.cfg.OpenStore(e.passphrase)
	if err != nil {
		return nil, err
	}
	e.store = s
	return s, nil
}

// closeStore releases the key store. Commands defer it since the post run
// hook is skipped when they fail.
func (e *env) closeStore() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warnw("", "store", "close", "err", err)
	}
	e.store = nil
}

type rootFlags struct {
	configPath string
	curve      string
	hasher     string
	logLevel   string
	jsonLogs   bool
	keyFolder  string
	keyStore   string
	passphrase string
}

// Execute runs the splitdh command line.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		e     env
	)

	root := &cobra.Command{
		Use:           "splitdh",
		Short:         "Split-key Diffie-Hellman over Montgomery curves",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if flags.configPath != "" {
				var err error
				if cfg, err = config.Load(flags.configPath); err != nil {
					return err
				}
			}

			// flags given on the command line win over the file
			pf := cmd.Flags()
			if pf.Changed("curve") {
				cfg.Curve = flags.curve
			}
			if pf.Changed("hasher") {
				cfg.Hasher = flags.hasher
			}
			if pf.Changed("log-level") {
				cfg.LogLevel = flags.logLevel
			}
			if pf.Changed("json") {
				cfg.JSONLogs = flags.jsonLogs
			}
			if pf.Changed("keys") {
				cfg.KeyFolder = flags.keyFolder
			}
			if pf.Changed("store") {
				cfg.KeyStore = flags.keyStore
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cfg.Logger()
			if err != nil {
				return err
			}

			e.cfg = cfg
			e.passphrase = flags.passphrase
			e.logger = logger.Named("splitdh")
			cmd.SetContext(log.ToContext(cmd.Context(), e.logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.closeStore()
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "TOML config file")
	pf.StringVar(&flags.curve, "curve", "curve25519", "curve: curve25519 or babyjubjub")
	pf.StringVar(&flags.hasher, "hasher", "sha256", "key derivation: sha256, blake2b or hkdf")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&flags.jsonLogs, "json", false, "log as JSON")
	pf.StringVar(&flags.keyFolder, "keys", ".splitdh", "folder holding split keys")
	pf.StringVar(&flags.keyStore, "store", "file", "key store backend: file or bolt")
	pf.StringVarP(&flags.passphrase, "passphrase", "p", "", "passphrase sealing stored key halves")

	root.AddCommand(
		demoCmd(&e),
		keygenCmd(&e),
		sharedCmd(&e),
		ratchetCmd(&e),
		paramsCmd(&e),
	)
	return root
}
