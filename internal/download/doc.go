// Package download provides the concurrent download orchestration core.
//
// # Manager
//
// The Manager drives the full track list through a bounded worker
// pool:
//
//  1. One goroutine is launched per track; real work is gated by a
//     permit Limiter so only a bounded subset downloads at any instant
//  2. Each worker streams the audio body to disk in 8 KiB chunks,
//     reporting byte progress to a ProgressSink
//  3. Covers are fetched at most once per artist via the CoverRegistry
//  4. ID3 tags are written after the body completes
//  5. Results are tallied in completion order, not submission order
//
// # Basic Usage
//
//	manager := download.NewManager(settings, client, tagger, log, sink)
//	succeeded, total := manager.RunAll(ctx, tracks)
//	fmt.Printf("%d of %d downloaded\n", succeeded, total)
//
// # Failure model
//
// No error escapes a worker: network, filesystem, and timeout failures
// are logged with the track context and counted as non-successes, and
// the batch continues. Tag-write failures don't demote an otherwise
// successful download. Cancelling the context unwinds in-flight
// transfers, releases their permits, and RunAll drains every worker
// before returning.
//
// # Slots
//
// Each task carries a slot index (task sequence number modulo the
// concurrency limit) used purely to route progress updates to one of N
// visual indicators. Slots have no synchronization meaning.
package download
