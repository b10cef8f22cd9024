package cron

import (
	"context"
	"fmt"

	"github.com/Dias221467/Social_Network/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReconcileCronJobs runs the friend reconciler on schedule (standard
// five-field expression or a descriptor such as "@hourly"). Overlapping runs are
// skipped. The caller stops the returned scheduler on shutdown.
func StartReconcileCronJobs(schedule string, reconciler *jobs.FriendReconciler) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logrus.StandardLogger())),
		cron.SkipIfStillRunning(cron.PrintfLogger(logrus.StandardLogger())),
	))

	_, err := c.AddFunc(schedule, func() {
		if _, err := reconciler.RunScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Friend reconcile failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	c.Start()
	logrus.WithField("schedule", schedule).Info("Friend reconcile cron started")
	return c, nil
}
