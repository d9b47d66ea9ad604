// Package keyservice implements the client for the remote key service: an
// HTTPS+JSON API that issues and returns symmetric key material used to
// protect locally stored secrets.
//
// The client exchanges a caller-supplied secret (or a server-issued long
// secret) together with a key id for a key bundle. Three operations exist:
//
//   - CreateKey: registers a new key for a secret and returns the bundle,
//     including a server-issued long secret.
//   - GetKey: retrieves the bundle for a key id using the original secret.
//   - GetKeyViaLongSecret: retrieves the bundle using the long secret.
//
// Each operation is a single POST round trip with a JSON body; there is no
// session, no client-side state and no retry. Failures are classified
// exactly once into a closed error taxonomy (see Error and the Kind
// constants) so callers can branch on the failure reason without parsing
// error strings.
//
// Example:
//
//	client, err := keyservice.New(keyservice.Config{
//	    RealmBaseURL: "https://id.example.com/auth/realms/demo",
//	    Version:      keyservice.V1,
//	})
//	if err != nil {
//	    return err
//	}
//
//	model, err := client.CreateKey(ctx, secret)
//	if err != nil {
//	    if keyservice.IsNoConnection(err) {
//	        // offline, try again later
//	    }
//	    return err
//	}
//
// # Concurrency
//
// A Client is safe for concurrent use. Operations in flight at the same
// time are fully independent; the only shared state is the immutable
// configuration. No ordering guarantee exists between concurrent calls.
//
// # Security
//
// Secrets, long secrets and key material must never be logged. The client
// only ever places them in request bodies over TLS; diagnostic output uses
// the logging.Secret wrapper.
package keyservice
