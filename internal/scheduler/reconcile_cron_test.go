package cron

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Social_Network/internal/jobs"
	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	runs chan struct{}
}

func (c *countingReconciler) Reconcile(context.Context) (*models.ReconcileReport, error) {
	select {
	case c.runs <- struct{}{}:
	default:
	}
	return &models.ReconcileReport{}, nil
}

func TestStartReconcileCronJobs_InvalidSchedule(t *testing.T) {
	_, err := StartReconcileCronJobs("every now and then", jobs.NewFriendReconciler(&countingReconciler{}, time.Second))
	assert.Error(t, err)
}

func TestStartReconcileCronJobs_Runs(t *testing.T) {
	rec := &countingReconciler{runs: make(chan struct{}, 1)}
	c, err := StartReconcileCronJobs("@every 1s", jobs.NewFriendReconciler(rec, time.Second))
	require.NoError(t, err)
	defer c.Stop()

	select {
	case <-rec.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("reconciler did not run")
	}
}
