package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/swgwatch/swgwatch/app/core"
	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/logic/v1/process"
)

type Options struct {
	ConfigPath string
	Force      bool
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "resource tracker service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	process.NewProcess(app).Start()
	serve(app)

	return nil
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "run only the background sync schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
	p.Stop()
	return nil
}

// NewSyncCommand runs one sync cycle and exits, for cron-style setups.
func NewSyncCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "run one full sync cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSync(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "ignore the freshness gate")
	return cmd
}

func RunSync(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	ctx := context.Background()

	if _, err := v1.NewClassTreeLogic(ctx, app).SyncResourceTree(opts.Force); err != nil {
		return err
	}
	if _, err := v1.NewSyncLogic(ctx, app).SyncCurrentResources(opts.Force); err != nil {
		return err
	}
	if _, err := v1.NewSalesLogic(ctx, app).ExtractUnprocessed(); err != nil {
		return err
	}
	return nil
}
