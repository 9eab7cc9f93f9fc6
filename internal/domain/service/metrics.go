package service

// Outcomes recorded for passport operations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OperationRecorder counts passport operations by name and outcome.
type OperationRecorder interface {
	RecordPassportOperation(operation, outcome string)
}
