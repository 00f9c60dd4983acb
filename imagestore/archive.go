package imagestore

import (
	"cmp"
	"context"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/forestrie/go-veccollections/radixtree"
)

// Archive saves radix trees as images in a Store and opens them again.
type Archive[K cmp.Ordered, V any] struct {
	log    logger.Logger
	store  Store
	keys   radixtree.KeyCodec[K]
	values radixtree.ValueCodec[V]
	opts   Options
}

func NewArchive[K cmp.Ordered, V any](
	log logger.Logger, store Store,
	keys radixtree.KeyCodec[K], values radixtree.ValueCodec[V],
	opts ...Option,
) *Archive[K, V] {
	return &Archive[K, V]{
		log:    log,
		store:  store,
		keys:   keys,
		values: values,
		opts:   newOptions(opts...),
	}
}

// Save serializes t under a new id.
func (a *Archive[K, V]) Save(ctx context.Context, t radixtree.Reader[K, V]) (ImageID, []byte, error) {
	img, err := radixtree.Serialize(t, a.keys, a.values)
	if err != nil {
		return ImageID{}, nil, err
	}
	id, err := NewImageID()
	if err != nil {
		return ImageID{}, nil, err
	}
	if err := a.store.Put(ctx, a.Path(id), img); err != nil {
		return ImageID{}, nil, err
	}
	a.log.Infof("saved image %s: %d bytes, %d keys", id, len(img), t.Len())
	return id, img, nil
}

// Path returns where the image id is stored.
func (a *Archive[K, V]) Path(id ImageID) string {
	return ImagePath(a.opts.Prefix, id)
}

// Fetch returns the raw image bytes.
func (a *Archive[K, V]) Fetch(ctx context.Context, id ImageID) ([]byte, error) {
	img, err := a.store.Get(ctx, a.Path(id))
	if err != nil {
		return nil, err
	}
	a.log.Debugf("fetched image %s: %d bytes", id, len(img))
	return img, nil
}

// Open fetches and validates the image and returns a tree that reads it
// lazily.
func (a *Archive[K, V]) Open(ctx context.Context, id ImageID) (*radixtree.LazyTree[K, V], error) {
	img, err := a.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return radixtree.LoadLazy(img, a.keys, a.values)
}

// OpenShared fetches and validates the image and decodes it completely into
// a copy-on-write tree.
func (a *Archive[K, V]) OpenShared(ctx context.Context, id ImageID) (*radixtree.SharedTree[K, V], error) {
	img, err := a.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return radixtree.LoadShared(img, a.keys, a.values)
}

// PutSeal stores a seal over the image id beside it.
func (a *Archive[K, V]) PutSeal(ctx context.Context, id ImageID, seal []byte) error {
	if err := a.store.Put(ctx, ImageSealPath(a.opts.Prefix, id), seal); err != nil {
		return err
	}
	a.log.Infof("sealed image %s", id)
	return nil
}

// FetchSeal returns the seal stored by PutSeal.
func (a *Archive[K, V]) FetchSeal(ctx context.Context, id ImageID) ([]byte, error) {
	return a.store.Get(ctx, ImageSealPath(a.opts.Prefix, id))
}
