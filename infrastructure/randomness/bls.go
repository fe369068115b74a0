package randomness

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"lottoledger/domain/entities"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"
)

// BLSSourceName identifies seeds produced by BLSSource
const BLSSourceName = "bls"

const drawMessagePrefix = "lottoledger/draw/"

var suite = pairing.NewSuiteBn256()

// BLSSource derives seeds from BLS signatures over the lottery id.
// A key has exactly one valid signature, and so one seed, per lottery.
type BLSSource struct {
	private kyber.Scalar
	public  kyber.Point
}

// NewBLSSource creates a source signing with private
func NewBLSSource(private kyber.Scalar) *BLSSource {
	return &BLSSource{
		private: private,
		public:  suite.G2().Point().Mul(private, nil),
	}
}

// NewBLSSourceFromHex creates a source from a hex encoded private scalar
func NewBLSSourceFromHex(privateHex string) (*BLSSource, error) {
	private, err := ParsePrivateKey(privateHex)
	if err != nil {
		return nil, err
	}
	return NewBLSSource(private), nil
}

// Name returns the source identifier
func (s *BLSSource) Name() string {
	return BLSSourceName
}

// PublicKey returns the verification key
func (s *BLSSource) PublicKey() kyber.Point {
	return s.public
}

// SeedFor signs the draw message and hashes the signature into a seed.
// The signature is returned as the proof.
func (s *BLSSource) SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error) {
	if err := ctx.Err(); err != nil {
		return entities.Seed{}, err
	}

	sig, err := bls.Sign(suite, s.private, drawMessage(lotteryID))
	if err != nil {
		return entities.Seed{}, fmt.Errorf("failed to sign draw message: %w", err)
	}

	return entities.Seed{
		Value:  seedFromDigest(sig),
		Proof:  sig,
		Source: BLSSourceName,
	}, nil
}

// VerifySeed checks that seed was produced by the holder of public for lotteryID
func VerifySeed(public kyber.Point, lotteryID uint64, seed entities.Seed) error {
	if len(seed.Proof) == 0 {
		return fmt.Errorf("seed carries no proof")
	}
	if err := bls.Verify(suite, public, drawMessage(lotteryID), seed.Proof); err != nil {
		return fmt.Errorf("invalid draw signature: %w", err)
	}
	if seedFromDigest(seed.Proof) != seed.Value {
		return fmt.Errorf("seed value does not match its proof")
	}
	return nil
}

// GenerateKeyPair creates a fresh signing key pair
func GenerateKeyPair() (kyber.Scalar, kyber.Point) {
	return bls.NewKeyPair(suite, random.New())
}

// EncodeKey hex encodes a scalar or point
func EncodeKey(key interface{ MarshalBinary() ([]byte, error) }) (string, error) {
	data, err := key.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to marshal key: %w", err)
	}
	return hex.EncodeToString(data), nil
}

// ParsePrivateKey decodes a hex encoded private scalar
func ParsePrivateKey(privateHex string) (kyber.Scalar, error) {
	data, err := hex.DecodeString(privateHex)
	if err != nil {
		return nil, fmt.Errorf("private key is not hex: %w", err)
	}
	private := suite.G2().Scalar()
	if err := private.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if private.Equal(suite.G2().Scalar().Zero()) {
		return nil, fmt.Errorf("private key must not be zero")
	}
	return private, nil
}

// ParsePublicKey decodes a hex encoded public point
func ParsePublicKey(publicHex string) (kyber.Point, error) {
	data, err := hex.DecodeString(publicHex)
	if err != nil {
		return nil, fmt.Errorf("public key is not hex: %w", err)
	}
	public := suite.G2().Point()
	if err := public.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	return public, nil
}

func drawMessage(lotteryID uint64) []byte {
	var buf bytes.Buffer
	buf.WriteString(drawMessagePrefix)
	buf.WriteString(strconv.FormatUint(lotteryID, 10))
	return buf.Bytes()
}
