/*
Package redis provides a Redis-backed ports.SessionStore and ports.DistributedLocker,
letting several topic-service replicas share exploration records.
*/
package redis
