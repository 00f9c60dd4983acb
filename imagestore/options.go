package imagestore

import (
	"io/fs"

	"github.com/datatrails/go-datatrails-common/azblob"
)

type Options struct {
	// Prefix is the path every image path starts with.
	Prefix string
	// Tags are set on every blob a BlobStore writes.
	Tags map[string]string
	// FileMode is the mode of files a DirStore writes.
	FileMode fs.FileMode
	// BlobOptions are forwarded on every blob store call.
	BlobOptions []azblob.Option
}

// Option is shared by the stores and the archive. Each applies the options
// that concern it and ignores the rest.
type Option func(any)

func WithPrefix(prefix string) Option {
	return func(opts any) {
		if o, ok := opts.(*Options); ok {
			o.Prefix = prefix
		}
	}
}

func WithTags(tags map[string]string) Option {
	return func(opts any) {
		if o, ok := opts.(*Options); ok {
			o.Tags = tags
		}
	}
}

func WithFileMode(mode fs.FileMode) Option {
	return func(opts any) {
		if o, ok := opts.(*Options); ok {
			o.FileMode = mode
		}
	}
}

func WithBlobOptions(blobOpts ...azblob.Option) Option {
	return func(opts any) {
		if o, ok := opts.(*Options); ok {
			o.BlobOptions = append(o.BlobOptions, blobOpts...)
		}
	}
}

func newOptions(opts ...Option) Options {
	o := Options{FileMode: 0o644}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
