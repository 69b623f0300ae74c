package main

import (
	"github.com/henderiw/idxqueue/pkg/config"
	"github.com/henderiw/idxqueue/pkg/registry"
	"github.com/henderiw/idxqueue/pkg/store"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	storePath  string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	o := &options{}
	rootCmd := &cobra.Command{
		Use:   "idqueue",
		Short: "idqueue - named run-length encoded queues of ids",
		Long: `idqueue keeps named sets of integer ids stored as sorted, disjoint intervals.

Ids are consumed lowest first with dequeue and can be added or removed one by
one or as whole ranges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default .idqueue.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().StringVar(&o.storePath, "store", "", "path of the LevelDB database, overrides store.path")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level, overrides log.level")

	rootCmd.AddCommand(
		newCreateCommand(o),
		newDeleteCommand(o),
		newEnqueueCommand(o),
		newEnqueueRangeCommand(o),
		newDequeueCommand(o),
		newRemoveCommand(o),
		newRemoveRangeCommand(o),
		newShowCommand(o),
		newListCommand(o),
		newMetricsCommand(o),
	)
	return rootCmd
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run opens the store, loads the registry and hands it to fn. When mutate is
// set the registry is flushed after fn succeeds.
func (o *options) run(mutate bool, fn func(cfg *config.Config, r *registry.Registry) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := store.OpenLevelDB(cfg.Store.Path, log)
	if err != nil {
		return err
	}
	defer s.Close()

	r := registry.New(registry.WithStore(s), registry.WithLogger(log))
	if err := r.Load(); err != nil {
		return err
	}
	if err := fn(cfg, r); err != nil {
		return err
	}
	if mutate {
		return r.Flush()
	}
	return nil
}
