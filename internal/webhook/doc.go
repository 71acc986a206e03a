// Package webhook receives LINE-style webhook deliveries and authenticates
// them with an HMAC-SHA256 signature.
//
// # Security Model
//
//   - The signature header carries base64(HMAC-SHA256(secret, body)) with
//     standard padding, computed over the raw body bytes as received
//   - Signatures are compared with hmac.Equal (constant time)
//   - The secret is read from the environment on every request; a missing
//     secret is a per-request server error, not a startup failure
//   - Body size limits are enforced before any hashing
//
// # Request Flow
//
//  1. HTTP POST arrives at a configured path
//  2. Body read (reject with 413 if over the limit, 2MB by default)
//  3. Secret resolved (500 if unset)
//  4. Signature header extracted (400 if absent)
//  5. HMAC computed and compared (401 if mismatch)
//  6. 200 with an empty body; the payload is logged, never interpreted
//
// GET /health always answers 200 "ok".
//
// # Example Usage
//
//	server := webhook.New(webhook.Config{
//		Listen: "0.0.0.0:8080",
//		Paths:  []string{"/webhook"},
//	}, webhook.EnvSecret("LINE_CHANNEL_SECRET"), logger)
//	if err := server.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
package webhook
