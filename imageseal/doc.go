// Package imageseal signs and verifies COSE Sign1 seals over archived radix
// tree images.
//
// A seal commits to the size, trailer fields and sha256 digest of an image.
// The digest is removed from the published payload after signing, so the
// seal only verifies when the verifier recomputes it from the image itself.
package imageseal
