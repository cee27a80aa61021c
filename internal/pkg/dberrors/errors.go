package dberrors

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKeyError checks if the error is a MongoDB unique index violation
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsDuplicateOnIndex checks if the error is a unique index violation on the
// named index, so callers can tell which field collided.
func IsDuplicateOnIndex(err error, indexName string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 && strings.Contains(we.Message, indexName) {
				return true
			}
		}
	}
	return false
}

// IsNoDocuments checks if the error is the driver's empty-result sentinel
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
