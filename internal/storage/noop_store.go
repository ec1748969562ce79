package storage

import (
	"context"
	"io"

	"go-hrops/internal/shared/apperror"
)

// unavailableStore is wired when OSS credentials are missing; uploads fail
// with SERVICE_UNAVAILABLE instead of panicking on a nil store.
type unavailableStore struct{}

func NewUnavailableStore() ObjectStore {
	return unavailableStore{}
}

func (unavailableStore) Put(context.Context, string, string, io.Reader, int64, string) (Object, error) {
	return Object{}, apperror.ErrStorageUnavailable
}

func (unavailableStore) Delete(context.Context, string, string) error {
	return apperror.ErrStorageUnavailable
}

func (unavailableStore) URL(bucket, key string) string {
	return ""
}
