package main

import (
	"fmt"

	"github.com/danmuck/cpmdl/internal/downloader"
	"github.com/danmuck/cpmdl/internal/metrics"
	"github.com/danmuck/cpmdl/internal/notify"
	"github.com/danmuck/cpmdl/internal/storage"
	"github.com/danmuck/cpmdl/internal/version"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	flags := &flagValues{}
	root := &cobra.Command{
		Use:   "cpmdl",
		Short: "Receive files sent by a CP/M machine over a serial line",
		Long: `cpmdl waits on a serial device for framed files and stores them under the
output directory until the sender transmits quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "cpmdl %s\n", version.Get(cmd.Context(), a.runner))
				return nil
			}
			return a.receive(cmd, flags)
		},
	}
	flags.bindShared(root.PersistentFlags())
	flags.bindReceive(root.Flags())

	root.AddCommand(newSendCmd(a, flags))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd(a))
	return root
}

func (a *app) receive(cmd *cobra.Command, flags *flagValues) error {
	cfg, err := flags.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	logger, closeLog, err := a.logger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	rec := metrics.NewRecorder()
	session := downloader.New(downloader.Config{
		Device:     cfg.Device,
		BaudRate:   cfg.BaudRate,
		OutputPath: cfg.OutputPath,
		Limits:     cfg.Limits,
	}, downloader.Deps{
		Open:     a.open,
		Store:    storage.New(a.fs, logger),
		Notifier: notify.NewSound(cfg.Sound, a.runner, logger),
		Metrics:  rec,
		Logger:   logger,
	})
	outcome := session.Run(cmd.Context())

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("metrics not written")
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), downloader.Describe(outcome))
	if !outcome.OK() {
		return errSessionFailed
	}
	return nil
}
