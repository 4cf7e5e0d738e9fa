// Package events delivers committed domain events outside the service.
//
// RedisPublisher pushes a JSON envelope per event onto a Redis pub/sub
// channel so that terminals refresh their task lists. AsyncNotifier decouples
// the committing request from slow sinks through a bounded queue, and Fanout
// hands every batch to several notifiers at once (publisher and metrics).
package events
