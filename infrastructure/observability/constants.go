package observability

// Metric name prefixes
const (
	MetricPrefix = "wagerbot"
)

// Metric names
const (
	OperationsTotal   = MetricPrefix + ".engine.operations_total"
	OperationDuration = MetricPrefix + ".engine.operation_duration"

	PointsMovedTotal = MetricPrefix + ".ledger.points_moved_total"

	SnapshotFlushesTotal  = MetricPrefix + ".snapshot.flushes_total"
	SnapshotFlushDuration = MetricPrefix + ".snapshot.flush_duration"
	SnapshotBytes         = MetricPrefix + ".snapshot.bytes"
)

// Label keys
const (
	LabelOperation       = "operation"
	LabelOutcome         = "outcome"
	LabelTransactionType = "transaction_type"
	LabelBackend         = "backend"
)

// Outcomes
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
