package main

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend"
	"github.com/spf13/cobra"
)

// app carries the resolved configuration into subcommands.
type app struct {
	configPath string
	flags      Config
	cfg        Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "glcaps",
		Short: "Inspect glfx backends and context versions",
		Long: `glcaps opens a glfx backend, builds a context for a version and
reports what the context exposes: operation groups, capability limits
and resource statistics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.flags.Backend, "backend", "", "backend name (default: first available)")
	pf.StringVar(&a.flags.Version, "version", "", "context version, e.g. 4.3")
	pf.StringVarP(&a.flags.Output, "output", "o", "", "report format: text or yaml")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newCapsCmd(a), newVersionsCmd(a), newSmokeCmd(a), newBackendsCmd())
	return root
}

// resolve loads the config file and applies the flags the user set.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = a.flags.Backend
	}
	if flags.Changed("version") {
		cfg.Version = a.flags.Version
	}
	if flags.Changed("output") {
		cfg.Output = a.flags.Output
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.log, err = cfg.logger()
	if err != nil {
		return err
	}
	if a.log != nil {
		glfx.SetLogger(a.log)
	}
	a.cfg = cfg
	return nil
}

// openBackend opens the configured backend.
func (a *app) openBackend() (backend.Backend, error) {
	if a.cfg.Backend == "" {
		return backend.Default()
	}
	return backend.Open(a.cfg.Backend)
}

// withContext opens the backend, builds a context for version v and runs
// fn. Both are closed afterwards.
func (a *app) withContext(v glfx.Version, fn func(backend.Backend, *glfx.Context) error) error {
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Close()
	c, err := glfx.NewContext(b, v, a.cfg.contextOptions(a.log)...)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}
	defer c.Close()
	return fn(b, c)
}

func (a *app) version() glfx.Version {
	v, _ := glfx.ParseVersion(a.cfg.Version)
	return v
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range backend.Available() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
