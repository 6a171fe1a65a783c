package mongodb

import (
	"errors"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error labels the server attaches to retryable transaction failures.
// See https://www.mongodb.com/docs/manual/core/transactions-in-applications/
const (
	labelTransientTransaction   = "TransientTransactionError"
	labelUnknownTransactionCommit = "UnknownTransactionCommitResult"
)

// classify labels a document store failure for the retry loop. The server
// marks races between concurrent transactions with explicit error labels;
// everything else (validation errors, duplicate keys, permission errors)
// is fatal. Unknown errors default to fatal.
func classify(err error) persistence.ErrorClass {
	if err == nil {
		return persistence.ErrorClassFatal
	}

	// CommandError and WriteException both satisfy ServerError
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		if srvErr.HasErrorLabel(labelTransientTransaction) ||
			srvErr.HasErrorLabel(labelUnknownTransactionCommit) {
			return persistence.ErrorClassTransient
		}
	}

	return persistence.ErrorClassFatal
}
