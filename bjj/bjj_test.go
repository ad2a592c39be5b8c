package bjj

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/splitdh/field"
	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/montgomery"
)

func randomScalar(t *testing.T) [group.ElementSize]byte {
	t.Helper()
	k, err := rand.Int(rand.Reader, New().Params().Order)
	require.NoError(t, err)
	k.Add(k, big.NewInt(1))
	enc, err := group.EncodeScalar(k)
	require.NoError(t, err)
	return enc
}

func curve() *montgomery.Curve {
	p := New().Params()
	return montgomery.NewCurve(field.New(p.P), p.A)
}

func TestParams(t *testing.T) {
	p := New().Params()

	require.Equal(t, big.NewInt(168698), p.A)
	require.Equal(t, int64(8), p.Cofactor)
	require.True(t, curve().IsOnCurveX(p.BaseX))

	order, ok := new(big.Int).SetString("2736030358979909402780800718157159386076813972158567259200215660948447373041", 10)
	require.True(t, ok)
	require.Equal(t, order, p.Order)
}

func TestScalarBaseMult(t *testing.T) {
	g := New()
	c := curve()

	t.Run("One", func(t *testing.T) {
		var one [group.ElementSize]byte
		one[0] = 1
		u, err := g.ScalarBaseMult(one)
		require.NoError(t, err)
		require.Equal(t, g.Params().BaseX, g.Params().DecodeElement(u))
	})

	t.Run("MatchesMontgomeryReference", func(t *testing.T) {
		base, err := c.Lift(g.Params().BaseX)
		require.NoError(t, err)

		k := randomScalar(t)
		u, err := g.ScalarBaseMult(k)
		require.NoError(t, err)

		want, err := c.ScalarMult(group.DecodeScalar(k), base)
		require.NoError(t, err)
		require.Equal(t, want.X, g.Params().DecodeElement(u))
	})

	t.Run("MatchesEdwards", func(t *testing.T) {
		k := randomScalar(t)
		u, err := g.ScalarBaseMult(k)
		require.NoError(t, err)

		base := twistededwards.GetEdwardsCurve().Base
		var p twistededwards.PointAffine
		p.ScalarMultiplication(&base, group.DecodeScalar(k))

		want, err := edwardsToU(&p)
		require.NoError(t, err)
		require.Equal(t, want, g.Params().DecodeElement(u))
	})

	t.Run("ZeroIsIdentity", func(t *testing.T) {
		var zero [group.ElementSize]byte
		_, err := g.ScalarBaseMult(zero)
		require.ErrorIs(t, err, group.ErrIdentity)
	})
}

func TestScalarMult(t *testing.T) {
	g := New()

	t.Run("DiffieHellman", func(t *testing.T) {
		a, b := randomScalar(t), randomScalar(t)

		pa, err := g.ScalarBaseMult(a)
		require.NoError(t, err)
		pb, err := g.ScalarBaseMult(b)
		require.NoError(t, err)

		sa, err := g.ScalarMult(a, pb)
		require.NoError(t, err)
		sb, err := g.ScalarMult(b, pa)
		require.NoError(t, err)
		require.Equal(t, sa, sb)
	})

	t.Run("RejectsLowOrder", func(t *testing.T) {
		k := randomScalar(t)
		var zero [group.ElementSize]byte
		_, err := g.ScalarMult(k, zero)
		require.ErrorIs(t, err, group.ErrInvalidPoint)
	})

	t.Run("RejectsOffCurve", func(t *testing.T) {
		c := curve()
		x := big.NewInt(2)
		for c.IsOnCurveX(x) {
			x.Add(x, big.NewInt(1))
		}

		_, err := g.ScalarMult(randomScalar(t), g.Params().EncodeElement(x))
		require.ErrorIs(t, err, group.ErrInvalidPoint)
	})

	t.Run("RejectsMinusOne", func(t *testing.T) {
		u := g.Params().EncodeElement(big.NewInt(-1))
		_, err := g.ScalarMult(randomScalar(t), u)
		require.ErrorIs(t, err, group.ErrInvalidPoint)
	})
}
