/*
Package ports defines the driven ports (interfaces) of the subject explorer.

These interfaces decouple the navigation controller and the topic service from their
concrete collaborators, so a mock topic service can be swapped for a remote one and
the server-side session records can live in memory or in Redis.

# Key Interfaces

  - TopicService: the external collaborator that produces menus (mock, HTTP client, in-process service).
  - SessionStore: persistence of server-side Exploration records.
  - DistributedLocker: serializes access to one exploration across replicas.
*/
package ports
