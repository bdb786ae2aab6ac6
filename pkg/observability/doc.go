/*
Package observability turns editor lifecycle events into telemetry.

Metrics maps entity, command and generation events onto prometheus
collectors; DebugHooks logs them through slog; Join composes any number
of hook sets into the single LifecycleHooks value the editor accepts.
*/
package observability
