// Package imagecache is the shared fetch-and-cache engine behind every image view.
//
// Views ask for a decoded image by [Key] (locator plus target size). The engine keeps
// three structures, all owned by a single consuming goroutine (the UI event loop or a
// CLI drain loop):
//
//   - [Store]: key -> decoded [Image], write-once for the lifetime of a session
//   - [Waiters]: key -> sinks waiting for a fetch that has not resolved yet
//   - [Scheduler]: FIFO queue of pending keys drained by a fixed number of workers
//
// # Request Flow
//
//	Request(key, load, sink)
//	  cached?  -> sink.Deliver synchronously (fast path, no request allocated)
//	  pending? -> sink appended to the key's waiters, nothing else
//	  else     -> new pending request appended to the FIFO, dispatched when a slot frees
//
// Workers only run the loader. Their result travels back over one buffered channel
// ([Scheduler.Deliveries]); the consuming goroutine hands it to [Scheduler.Complete],
// which stores the image, fans the result out to every waiter and starts the next
// queued request. Failures take the same path and are never cached, so the next
// request for the key starts a fresh fetch.
//
// # Failures
//
// Every failure delivered to a sink is a [*FetchError] whose kind is one of
// [ErrNetwork], [ErrDecode] or [ErrSourceMissing]. Use [Retryable] to decide whether
// asking again may help.
//
// # Cancellation
//
// There is none. A sink whose view was torn down still gets called and must ignore
// the result.
package imagecache
