// Package auth is a session-based authentication substrate for multi-tenant
// applications. It issues opaque login tokens, tracks session liveness
// (absolute expiry plus an optional inactivity window), supports identity
// impersonation with reversal, enforces account locking, and hides password
// verification behind four interchangeable hashing strategies.
//
// Session lifecycle:
//   - Engine owns establishment, liveness evaluation, activity refresh,
//     termination, impersonation, and bulk pruning. Sessions are persisted via
//     Bun; the raw token is returned exactly once and only its SHA-256 hash is
//     stored.
//   - Liveness is always computed from stored timestamps, never stored itself.
//     Expired and inactive are absorbing states: a dead session is terminated,
//     never revived.
//
// Tenancy:
//   - Sessions carry a weak (type, id) tenant pair: empty for single-tenant
//     mode, type-only for a label tenant, or both for an entity tenant.
//     ResolveTenant normalizes every accepted reference shape; a
//     TenantRegistry resolves type names back to something real, and a type
//     that stops resolving marks its sessions for the next Prune.
//
// Identity:
//   - The host owns identity records and exposes them through the
//     Authenticatable capability (primary key, locked flag). Password digests
//     are created and verified through the configured PasswordHasher strategy;
//     all four strategies emit self-describing digests, so cost parameters can
//     change without invalidating stored hashes.
package auth
