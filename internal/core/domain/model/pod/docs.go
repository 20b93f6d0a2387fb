// Package pod models proof-of-delivery captures: the Record aggregate with
// its delivery result, signer, device timestamps and photos, plus the
// offline-sync identity used to deduplicate replayed submissions.
package pod
