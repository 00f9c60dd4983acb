package imageseal

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"

	"github.com/forestrie/go-veccollections/radixtree"
)

var (
	ErrSealMismatch = errors.New("imageseal: seal does not describe the image")
	ErrSealInvalid  = errors.New("imageseal: seal signature does not verify")
)

// Seal is what a sealer commits to for an archived image.
type Seal struct {
	// Size of the image in bytes.
	Size uint64 `cbor:"1,keyasint"`
	// Digest is the sha256 of the image. It is signed but detached from the
	// published message, so a verifier must have the image to check the seal.
	Digest []byte `cbor:"2,keyasint"`
	// Root and Arrays are copied from the image trailer.
	Root   uint32 `cbor:"3,keyasint"`
	Arrays uint32 `cbor:"4,keyasint"`
	// KeyWidth is copied from the image header.
	KeyWidth uint8 `cbor:"5,keyasint"`
	// Timestamp is the unix time (milliseconds) the seal was made. Including
	// it allows for the same image to be sealed again.
	Timestamp int64 `cbor:"6,keyasint"`
}

// NewSeal describes img. The image header and trailer are checked, its node
// records are not.
func NewSeal(img []byte, now time.Time) (Seal, error) {
	info, err := radixtree.Inspect(img)
	if err != nil {
		return Seal{}, err
	}
	digest := sha256.Sum256(img)
	return Seal{
		Size:      uint64(len(img)),
		Digest:    digest[:],
		Root:      info.Root,
		Arrays:    info.Arrays,
		KeyWidth:  uint8(info.KeyWidth),
		Timestamp: now.UnixMilli(),
	}, nil
}

// Sealer signs seals over images.
type Sealer struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewSealer(issuer string, cborCodec dtcbor.CBORCodec) Sealer {
	return Sealer{issuer: issuer, cborCodec: cborCodec}
}

func NewSealCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

// Sign1 seals img. The public key goes in the CWT claims of the protected
// header so the seal can be checked without any other key distribution.
func (s Sealer) Sign1(
	coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey,
	subject string, img []byte, external []byte,
) ([]byte, error) {
	seal, err := NewSeal(img, time.Now())
	if err != nil {
		return nil, err
	}
	payload, err := s.cborCodec.MarshalCBOR(seal)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
					s.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
			},
		},
		Payload: payload,
	}
	if err := msg.Sign(rand.Reader, external, coseSigner); err != nil {
		return nil, err
	}

	seal.Digest = nil
	if msg.Payload, err = s.cborCodec.MarshalCBOR(seal); err != nil {
		return nil, err
	}
	return msg.MarshalCBOR()
}

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSeal decodes a seal message without verifying it. The returned Seal
// has no Digest.
func DecodeSeal(codec dtcbor.CBORCodec, msg []byte) (*dtcose.CoseSign1Message, Seal, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(
		msg, dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts()))
	if err != nil {
		return nil, Seal{}, err
	}
	var unverified Seal
	if err := codec.UnmarshalInto(signed.Payload, &unverified); err != nil {
		return nil, Seal{}, err
	}
	return signed, unverified, nil
}

// VerifySeal checks that unverified describes img, restores the detached
// digest from img and verifies the signature.
func VerifySeal(
	codec dtcbor.CBORCodec, keyProvider publicKeyProvider,
	signed *dtcose.CoseSign1Message, unverified Seal, img []byte, external []byte,
) error {
	info, err := radixtree.Inspect(img)
	if err != nil {
		return err
	}
	switch {
	case unverified.Size != uint64(len(img)):
		return fmt.Errorf("%w: size %d, image %d", ErrSealMismatch, unverified.Size, len(img))
	case unverified.Root != info.Root || unverified.Arrays != info.Arrays:
		return fmt.Errorf("%w: trailer", ErrSealMismatch)
	case int(unverified.KeyWidth) != info.KeyWidth:
		return fmt.Errorf("%w: key width", ErrSealMismatch)
	}
	digest := sha256.Sum256(img)
	if unverified.Digest != nil && !bytes.Equal(unverified.Digest, digest[:]) {
		return fmt.Errorf("%w: digest", ErrSealMismatch)
	}
	unverified.Digest = digest[:]
	if signed.Payload, err = codec.MarshalCBOR(unverified); err != nil {
		return err
	}
	if err := signed.VerifyWithProvider(keyProvider, external); err != nil {
		return fmt.Errorf("%w: %w", ErrSealInvalid, err)
	}
	return nil
}

// Verify decodes msg and verifies it against img with the key from the
// message's own CWT claims. Callers must still decide whether to trust that
// key; the claims are returned for that.
func Verify(codec dtcbor.CBORCodec, msg []byte, img []byte, external []byte) (Seal, *dtcose.CWTClaims, error) {
	signed, unverified, err := DecodeSeal(codec, msg)
	if err != nil {
		return Seal{}, nil, err
	}
	if err := VerifySeal(codec, dtcose.NewCWTPublicKeyProvider(signed), signed, unverified, img, external); err != nil {
		return Seal{}, nil, err
	}
	claims, err := signed.CWTClaimsFromProtectedHeader()
	if err != nil {
		return Seal{}, nil, err
	}
	digest := sha256.Sum256(img)
	unverified.Digest = digest[:]
	return unverified, claims, nil
}
