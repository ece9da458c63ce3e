package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danmuck/cpmdl/internal/protocol"
	"github.com/danmuck/cpmdl/internal/protocol/frame"
	"github.com/danmuck/cpmdl/internal/transport"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errReservedName rejects a local file whose name the receiver would take as
// a command instead of a file.
var errReservedName = errors.New("file name is a command")

func newSendCmd(a *app, flags *flagValues) *cobra.Command {
	var (
		folder string
		quit   bool
	)
	cmd := &cobra.Command{
		Use:   "send [files...]",
		Short: "Send files to a receiving cpmdl",
		Long: `send frames local files the way a CP/M sender does, optionally preceded by a
subfolder change and followed by quit. Useful against a null-modem loopback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			logger, closeLog, err := a.logger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			logger = logger.With().Str("device", cfg.Device).Logger()

			frames := make([]frame.Frame, 0, len(args)+2)
			if folder != "" {
				frames = append(frames, frame.New(nil, protocol.SubfolderMarker+folder))
			}
			for _, path := range args {
				name := filepath.Base(path)
				parsed, err := protocol.ParseFrame(nil, []byte(name))
				if err != nil {
					return fmt.Errorf("send %s: %w", path, err)
				}
				if parsed.Kind() != protocol.KindStoreFile {
					return fmt.Errorf("send %s: %w: received as %s", path, errReservedName, parsed.Kind())
				}
				content, err := afero.ReadFile(a.fs, path)
				if err != nil {
					return fmt.Errorf("send %s: %w", path, err)
				}
				frames = append(frames, frame.New(content, name))
			}
			if quit {
				frames = append(frames, frame.New(nil, protocol.QuitName))
			}
			if len(frames) == 0 {
				return fmt.Errorf("nothing to send")
			}

			t, err := a.open(cfg.Device, cfg.BaudRate)
			if err != nil {
				return err
			}
			defer t.Close()
			if !t.IsOpen() {
				return &transport.OpenError{Device: cfg.Device, Baud: cfg.BaudRate, Err: transport.ErrNotOpen}
			}

			for _, f := range frames {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := frame.WriteFrame(t, f, cfg.Limits); err != nil {
					return fmt.Errorf("send %s: %w", f.Label(), err)
				}
				logger.Info().Str("name", string(f.Label())).Int("bytes", len(f.Payload())).Msg("frame sent")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d frame(s) to %s\n", len(frames), cfg.Device)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "switch the receiver to this subfolder first")
	cmd.Flags().BoolVar(&quit, "quit", true, "end the session after the files")
	return cmd
}
