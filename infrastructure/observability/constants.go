package observability

// Metric name prefixes
const (
	MetricPrefix = "lottoledger"
)

// Metric names
const (
	// Ledger operation metrics
	OperationsTotal   = MetricPrefix + ".operations.total"
	OperationDuration = MetricPrefix + ".operations.duration"

	// Lottery metrics
	TicketsSoldTotal = MetricPrefix + ".tickets.sold_total"
	PrizeVolumeTotal = MetricPrefix + ".prizes.volume_total"

	// NATS metrics
	EventsPublishedTotal = MetricPrefix + ".nats.events_published_total"
)

// Label keys
const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelErrorCode = "error_code"
	LabelEventType = "event_type"
)

// Outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
