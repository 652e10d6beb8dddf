// Package httputil provides HTTP support infrastructure shared by the
// registry client: a file-based response cache and retry with backoff.
//
// The cache keeps registry packuments on disk between runs so repeated
// checks of the same lock file do not re-download metadata for every
// package. Entries expire after a configurable TTL.
//
// Retry wraps transient failures (connection errors, 5xx responses) in
// [RetryableError] so that [Retry] can re-attempt them with exponential
// backoff, while permanent failures (404, decode errors) surface
// immediately.
package httputil
