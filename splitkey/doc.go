// Package splitkey implements Diffie-Hellman key agreement where each
// party's private scalar is the sum of two halves that can be held apart.
//
// A party's key is a [SplitKey]: a client half, a server half and the
// public x-coordinate of (Client + Server) * G. Each half-holder multiplies
// the peer's public point by its own half; neither ever sees the other's
// half or the full scalar. The two results are then added on the curve to
// give the shared x-coordinate x(k1 * k2 * G).
//
// # Key Agreement
//
//  1. Each party generates a split key using [Protocol.GenerateSplitKey]
//     and publishes SplitKey.Public.
//  2. Each half-holder computes its [Contribution] against the peer's
//     public key using [Protocol.Contribute].
//  3. The two contributions are added using [Protocol.Combine].
//  4. Both parties check the result out of band, or feed it to
//     [Protocol.DeriveKey].
//
// [Protocol.ComputeSharedKey] runs steps 2 and 3 for a holder of both
// halves.
//
// # Sign Recovery
//
// The scalar multiplication primitive returns x-coordinates only, and
// adding two x-coordinates is ambiguous: x(P + R) and x(P - R) are equally
// valid answers. A Contribution therefore carries both x(k * Q) and
// x((k + 1) * Q), which fixes the sign of k * Q relative to one lift of Q.
// Both contributions are recovered against the same lift before adding,
// so the sum is correct whatever sign was chosen for Q.
// [Protocol.CombineX] exposes the plain x-only addition for comparison.
//
// # Ratchet
//
// [Protocol.UpdateSplit] moves c * d from one half to the other, where c is
// the cofactor and d is drawn from [-2^220, 2^220]. The sum, and with it
// the public key and every shared key, is unchanged.
//
// # Example
//
//	p, _ := splitkey.New(x25519.New())
//
//	alice, _ := p.GenerateSplitKey(rand.Reader)
//	bob, _ := p.GenerateSplitKey(rand.Reader)
//
//	sA, _ := p.ComputeSharedKey(alice.Client, alice.Server, bob.Public)
//	sB, _ := p.ComputeSharedKey(bob.Client, bob.Server, alice.Public)
//
//	err := splitkey.VerifyAgreement(sA, sB) // nil
//
// # Security Considerations
//
// The primitive passed to [New] must multiply by the full scalar. RFC 7748
// X25519 clamps its scalar input, which breaks the sum of halves; use
// x25519.New, not x25519.NewClamped.
//
// The recombination arithmetic in this package is variable time. It works
// on public values and contributions, never on the halves themselves.
package splitkey
