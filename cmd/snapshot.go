package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type snapshotFlags struct {
	config string
	path   string
}

func newSnapshotServer(configPath string) (*Server, error) {
	runEnv := &runFlags{config: configPath, noServe: true}
	if err := resolveConfig(runEnv); err != nil {
		return nil, err
	}
	return NewServer(runEnv)
}

func init() {
	exportEnv := new(snapshotFlags)

	var exportCommand = &cobra.Command{
		Use:   "export [-c config_file] -f file",
		Short: "Export local data to a JSON snapshot file",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := newSnapshotServer(exportEnv.config)
			if err != nil {
				bootstrapLogger.Error("client start err", zap.Error(err))
				return
			}
			defer func() {
				s.sc.SendCloseSignal(nil)
				_ = s.sc.WaitClosed()
			}()

			snapshot, err := s.app.Service.SnapshotExport(context.Background(), exportEnv.path)
			if err != nil {
				s.logger.Error("snapshot export failed", zap.Error(err))
				return
			}
			fmt.Printf("exported %d notes, %d labels to %s\n",
				len(snapshot.Notes), len(snapshot.Labels), exportEnv.path)
		},
	}

	rootCmd.AddCommand(exportCommand)
	fs := exportCommand.Flags()
	fs.StringVarP(&exportEnv.config, "config", "c", "", "config file")
	fs.StringVarP(&exportEnv.path, "file", "f", "snapshot.json", "snapshot file path")

	importEnv := new(snapshotFlags)

	var importCommand = &cobra.Command{
		Use:   "import [-c config_file] -f file",
		Short: "Import a JSON snapshot file into the local store",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := newSnapshotServer(importEnv.config)
			if err != nil {
				bootstrapLogger.Error("client start err", zap.Error(err))
				return
			}
			defer func() {
				s.sc.SendCloseSignal(nil)
				_ = s.sc.WaitClosed()
			}()

			snapshot, err := s.app.Service.SnapshotImport(context.Background(), importEnv.path)
			if err != nil {
				s.logger.Error("snapshot import failed", zap.Error(err))
				return
			}
			fmt.Printf("imported %d notes, %d labels from %s\n",
				len(snapshot.Notes), len(snapshot.Labels), importEnv.path)
		},
	}

	rootCmd.AddCommand(importCommand)
	fs = importCommand.Flags()
	fs.StringVarP(&importEnv.config, "config", "c", "", "config file")
	fs.StringVarP(&importEnv.path, "file", "f", "snapshot.json", "snapshot file path")
}
