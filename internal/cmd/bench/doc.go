// Package bench implements the duraq bench subcommands: synthetic
// throughput drivers for the FIFO queue and the multi-cursor log. The
// drivers run concurrent producers and consumers against a real on-disk
// store and report item and byte throughput. Store-level flag defaults
// (capacity, TTL, fsync, backlog) are seeded from the loaded config.
package bench
