package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/sirupsen/logrus"
)

// Reconciler repairs the friend graph. It is satisfied by services.FriendService.
type Reconciler interface {
	Reconcile(ctx context.Context) (*models.ReconcileReport, error)
}

// FriendReconciler runs a bounded reconcile pass over all accounts.
type FriendReconciler struct {
	Service Reconciler
	Timeout time.Duration
}

// NewFriendReconciler creates a new instance of FriendReconciler
func NewFriendReconciler(service Reconciler, timeout time.Duration) *FriendReconciler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &FriendReconciler{Service: service, Timeout: timeout}
}

// RunScan repairs one-sided friendships and stale requests left by a
// friend request resolution that was interrupted between its two writes.
func (f *FriendReconciler) RunScan(ctx context.Context) (*models.ReconcileReport, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	start := time.Now()
	report, err := f.Service.Reconcile(ctx)
	if err != nil {
		return report, fmt.Errorf("friend reconcile failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"scanned":         report.Scanned,
		"backEdgesAdded":  report.BackEdgesAdded,
		"requestsCleared": report.RequestsCleared,
		"duration":        time.Since(start).String(),
	}).Info("Friend reconcile scan completed")
	return report, nil
}
