package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type syncFlags struct {
	config string
}

func init() {
	syncEnv := new(syncFlags)

	var syncCommand = &cobra.Command{
		Use:   "sync [-c config_file]",
		Short: "Drain the pending sync queue once and exit",
		Run: func(cmd *cobra.Command, args []string) {
			runEnv := &runFlags{config: syncEnv.config}
			if err := resolveConfig(runEnv); err != nil {
				bootstrapLogger.Error("config file auto create error", zap.Error(err))
				return
			}

			s, err := NewServer(&runFlags{config: runEnv.config, noServe: true})
			if err != nil {
				bootstrapLogger.Error("client start err", zap.Error(err))
				return
			}
			defer func() {
				s.sc.SendCloseSignal(nil)
				_ = s.sc.WaitClosed()
			}()

			ctx := context.Background()

			// 启动探测是异步的，这里同步探测一次拿到真实状态
			s.app.Monitor.Probe(ctx)

			result, err := s.app.Service.SyncTrigger(ctx)
			if err != nil {
				s.logger.Error("sync pass failed", zap.Error(err))
				return
			}
			fmt.Printf("sync finished: total=%d applied=%d failed=%d dropped=%d\n",
				result.Total, result.Applied, result.Failed, result.Dropped)
		},
	}

	rootCmd.AddCommand(syncCommand)
	fs := syncCommand.Flags()
	fs.StringVarP(&syncEnv.config, "config", "c", "", "config file")
}
