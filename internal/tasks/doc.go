// package tasks implements long-running catalog operations.
//
// The core abstraction is CatalogEngine, which orchestrates catalog snapshots,
// export writing, and bulk asset downloads. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks
