// Package publish fans one signed event out to a set of relays.
//
// Each relay gets its own goroutine and its own bounded retry loop. Transport
// faults (timeouts, failed connections) are retried after a fixed backoff;
// rejections are final. The round waits for every relay and returns a
// report in endpoint order.
package publish
