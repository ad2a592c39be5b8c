// Package session provides a high-level API for split-key Diffie-Hellman.
// It wraps the primitives in the [splitkey] package with stateful roles
// that guard their halves with a mutex and keep the ratchet in step.
//
// For full control over the protocol, use the [splitkey] package directly.
//
// # Single Process
//
// A [Party] holds both halves of its key. Two parties agree on a shared
// x-coordinate after exchanging public keys:
//
//	alice, _ := session.NewParty(x25519.New())
//	bob, _ := session.NewParty(x25519.New())
//
//	pubA, _ := alice.Generate(rand.Reader)
//	pubB, _ := bob.Generate(rand.Reader)
//
//	sA, _ := alice.SharedKey(pubB)
//	sB, _ := bob.SharedKey(pubA)
//	// sA == sB
//
// [Party.Ratchet] re-randomizes the split without changing the public key.
//
// # Client and Server
//
// [Party.Split] hands the halves to a [Client] and a [Server], which may
// live in different processes. Neither can compute the shared key alone:
//
//	client, server, _ := alice.Split()
//
//	// on the server
//	contribution, _ := server.Contribute(pubB)
//
//	// on the client, after receiving contribution
//	shared, _ := client.SharedKey(pubB, contribution)
//
// Ratcheting starts on the client. The returned [Update] must be delivered
// to the server, which rejects updates that arrive out of order:
//
//	update, _ := client.Ratchet(rand.Reader)
//	err := server.ApplyUpdate(update)
//
// # Metrics
//
// [NewMetrics] registers prometheus counters for contributions, shared
// keys, ratchet steps and server updates. Attach them with
// [Party.SetMetrics] before calling [Party.Split] so both roles count.
//
// # Transport Agnostic
//
// This package does not handle network communication. Contributions and
// updates must be carried between client and server over an authenticated,
// confidential channel of your choice.
package session
