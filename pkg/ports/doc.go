/*
Package ports defines the driven ports (interfaces) of the trip planner.

These interfaces decouple the planner from the session container it runs on,
so the same flow can be served from process memory or from Redis.

# Key Interfaces

  - TripStore: Holds the per-session Trip between requests.
  - DistributedLocker: Serializes access to a session across replicas.
*/
package ports
