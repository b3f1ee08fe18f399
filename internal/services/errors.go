package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	log "github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/metrics"
	"github.com/yukikurage/threads-api/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

// fail tags err with a failure kind, logs it and returns it. Errors that
// already carry a kind keep it.
func fail(op string, err error) error {
	var opErr *apierrors.OpError
	if !errors.As(err, &opErr) {
		err = apierrors.Wrap(classify(err), op, err)
	}

	kind := apierrors.KindOf(err)
	metrics.ServiceErrors.WithLabelValues(kindLabel(kind)).Inc()

	entry := log.WithError(err).WithField("op", op)
	switch kind {
	case apierrors.ErrPersistence, apierrors.ErrConnection:
		entry.Error("Store operation failed")
	default:
		entry.Debug("Request rejected")
	}
	return err
}

func classify(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apierrors.ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return apierrors.ErrConflict
	case isConnectionError(err):
		return apierrors.ErrConnection
	default:
		return apierrors.ErrPersistence
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, apierrors.ErrConnection) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func kindLabel(kind error) string {
	switch kind {
	case apierrors.ErrNotFound:
		return "not_found"
	case apierrors.ErrValidation:
		return "validation"
	case apierrors.ErrConflict:
		return "conflict"
	case apierrors.ErrConnection:
		return "connection"
	default:
		return "persistence"
	}
}
