/*
Package session implements persistence orchestration for topic-service sessions.

Manager serializes operations on one exploration record, in-process with reference-counted
mutexes and across replicas with an optional ports.DistributedLocker, so that concurrent
selections on the same session never lose an update.
*/
package session
