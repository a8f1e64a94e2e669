package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/containerpak/cpakstore/pkg/buildinfo"
	"github.com/containerpak/cpakstore/pkg/catalog"
)

const appName = "cpakstore"

// Levels main passes to New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the logger and the configuration shared by every command.
// The configuration is loaded once per invocation, before the command runs.
type CLI struct {
	Logger *log.Logger

	v          *viper.Viper
	cfg        *Config
	configFile string
	verbose    bool
	jsonOut    bool
}

// New returns a CLI logging to w at level. The -v flag may lower the level
// later.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
	}
}

// RootCommand assembles the cpakstore command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cpakstore browses the Containerpak package store",
		Long:         `cpakstore resolves the Containerpak store index into packages with their upstream descriptors and media, and lists, checks, exports or serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.Logger.SetLevel(levelFor(c.verbose))
			cfg, err := loadConfig(c.v, c.configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if cfg.ConfigFile != "" {
				c.Logger.Debug("loaded config", "file", cfg.ConfigFile)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configFile, "config", "", "config file (default ~/.cpakstore.yaml)")
	flags.BoolVar(&c.jsonOut, "json", false, "print machine-readable JSON")
	flags.String("index-url", catalog.DefaultIndexURL, "store index document")
	flags.String("categories-url", catalog.DefaultCategoriesURL, "category metadata document")
	flags.String("raw-host", catalog.DefaultRawHost, "host serving upstream cpak.json files")
	flags.String("cache", cacheNone, "document cache: none, file, memory or redis")
	flags.Int("retries", 0, "retries after a transient network failure")
	flags.Duration("timeout", 0, "per-request timeout (default 10s)")

	c.bindFlags(root, map[string]string{
		keyIndexURL:      "index-url",
		keyCategoriesURL: "categories-url",
		keyRawHost:       "raw-host",
		keyCache:         "cache",
		keyRetries:       "retries",
		keyTimeout:       "timeout",
	})

	root.AddCommand(
		c.categoriesCommand(),
		c.listCommand(),
		c.showCommand(),
		c.browseCommand(),
		c.checkCommand(),
		c.exportCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)

	return root
}

// bindFlags binds viper keys to persistent flags of cmd. A flag that was
// not set on the command line falls back to env, config file and default.
func (c *CLI) bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
		_ = c.v.BindPFlag(key, f)
	}
}

// config returns the loaded configuration. Commands run after
// PersistentPreRunE, so it is only nil in tests that bypass cobra.
func (c *CLI) config() *Config {
	if c.cfg == nil {
		c.cfg = &Config{Cache: cacheNone}
	}
	return c.cfg
}
