// Package score implements the startup opportunity scoring engine:
// named signal evaluators over a startup record, weight lookup from a
// caller-supplied configuration, and signed-sum aggregation into a
// [Result] with a per-signal breakdown. It exposes [Compute], [Record],
// [Weights], and [Route].
package score
