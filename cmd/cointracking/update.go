package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyronexus/cointracking/pkg/logger"
	"github.com/pyronexus/cointracking/pkg/updatejob"
)

func newUpdateCmd(a *app) *cobra.Command {
	var stopOnError bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Trigger a refresh of every configured importer job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.Update.Jobs) == 0 {
				return fmt.Errorf("no update jobs configured")
			}

			opts := []updatejob.Option{
				updatejob.WithJobIDDelay(a.cfg.Update.JobIDDelay),
				updatejob.WithJobDelay(a.cfg.Update.JobDelay),
				updatejob.WithLogger(logger.Component("updatejob")),
			}
			if stopOnError || a.cfg.Update.StopOnError {
				opts = append(opts, updatejob.WithStopOnError())
			}

			runner := updatejob.NewRunner(a.importTrigger(), a.cfg.Update.Jobs, opts...)
			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			failed := report.Failed()
			for _, attempt := range failed {
				logger.Warnf("update %s: job id %d failed: %v", attempt.Job, attempt.JobID, attempt.Err.Err)
			}
			logger.Infof("update run %s: %d triggers, %d failed", report.RunID, len(report.Attempts), len(failed))
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d update triggers failed", len(failed), len(report.Attempts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "abort at the first failed trigger")
	return cmd
}
