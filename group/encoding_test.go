package group

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeScalar(t *testing.T) {
	t.Run("LittleEndian", func(t *testing.T) {
		b, err := EncodeScalar(big.NewInt(0x0102))
		require.NoError(t, err)
		require.Equal(t, byte(0x02), b[0])
		require.Equal(t, byte(0x01), b[1])
		require.Equal(t, byte(0x00), b[31])
	})

	t.Run("RoundTrip", func(t *testing.T) {
		k, ok := new(big.Int).SetString("5a2f0000000000000000000000000000000000000000000000000000000000c3", 16)
		require.True(t, ok)

		b, err := EncodeScalar(k)
		require.NoError(t, err)
		require.Equal(t, byte(0xc3), b[0])
		require.Equal(t, byte(0x5a), b[31])
		require.Equal(t, k, DecodeScalar(b))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := EncodeScalar(big.NewInt(-1))
		require.ErrorIs(t, err, ErrScalarRange)

		_, err = EncodeScalar(new(big.Int).Lsh(big.NewInt(1), 256))
		require.ErrorIs(t, err, ErrScalarRange)

		top := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
		_, err = EncodeScalar(top)
		require.NoError(t, err)
	})
}

func TestElementEncoding(t *testing.T) {
	params := &Params{P: big.NewInt(1000003)}

	b := params.EncodeElement(big.NewInt(1000004))
	require.Equal(t, byte(1), b[0])
	require.Equal(t, big.NewInt(1), params.DecodeElement(b))

	var raw [ElementSize]byte
	raw[0] = 0x86 // 1000003 + 67 = 0x0f4286
	raw[1] = 0x42
	raw[2] = 0x0f
	require.Equal(t, big.NewInt(67), params.DecodeElement(raw))
}
