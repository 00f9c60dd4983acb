// Package imagestore persists archived radix tree images, in a local
// directory or in azure blob storage, under paths of the form
//
//	{prefix}/images/{uuid}.rdx
//
// Archive ties a store to the key and value codecs of one kind of tree.
package imagestore
