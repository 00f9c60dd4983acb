package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/datatrails/go-datatrails-common/logger"
)

const (
	azblobBlobNotFound = "BlobNotFound"
)

// blobStore is the part of the azblob storer images need.
type blobStore interface {
	Put(
		ctx context.Context,
		identity string,
		source io.ReadSeekCloser,
		opts ...azblob.Option,
	) (*azblob.WriteResponse, error)
	Reader(
		ctx context.Context,
		identity string,
		opts ...azblob.Option,
	) (*azblob.ReaderResponse, error)
}

// BlobStore keeps images as blobs, tagged with Options.Tags.
type BlobStore struct {
	log   logger.Logger
	store blobStore
	opts  Options
}

func NewBlobStore(log logger.Logger, store blobStore, opts ...Option) *BlobStore {
	return &BlobStore{log: log, store: store, opts: newOptions(opts...)}
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	opts := append([]azblob.Option{}, s.opts.BlobOptions...)
	if len(s.opts.Tags) > 0 {
		opts = append(opts, azblob.WithTags(s.opts.Tags))
	}
	if _, err := s.store.Put(ctx, path, azblob.NewBytesReaderCloser(data), opts...); err != nil {
		return err
	}
	s.log.Debugf("BlobStore.Put: %s (%d bytes)", path, len(data))
	return nil
}

// Get reads the whole blob. On return the blob reader has been closed.
func (s *BlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	rr, err := s.store.Reader(ctx, path, s.opts.BlobOptions...)
	if err != nil {
		if isBlobNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %s", ErrImageNotFound, path, err.Error())
		}
		return nil, err
	}
	defer rr.Reader.Close()
	return io.ReadAll(rr.Reader)
}

// isBlobNotFound reports whether err is the azure storage error for a
// missing blob.
func isBlobNotFound(err error) bool {
	var ierr *azStorageBlob.InternalError
	if !errors.As(err, &ierr) {
		return false
	}
	var serr *azStorageBlob.StorageError
	return ierr.As(&serr) && serr.ErrorCode == azblobBlobNotFound
}
