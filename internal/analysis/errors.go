package analysis

import "errors"

// FailureCode is the fixed error identifier attached to executions that
// end because the analysis job reported FAILED.
const FailureCode = "DocumentAnalysisFailed"

var (
	// ErrJobFailed indicates the analysis job reported a terminal FAILED status.
	ErrJobFailed = errors.New("analysis job failed: " + FailureCode)
	// ErrTimeout indicates the job did not reach a terminal status within the runner's ceiling.
	ErrTimeout = errors.New("analysis job timed out")
	// ErrUnknownJob indicates a status query for a job the provider does not know.
	ErrUnknownJob = errors.New("unknown analysis job")
	// ErrUnknownProvider indicates an unrecognized analysis provider name.
	ErrUnknownProvider = errors.New("unknown analysis provider")
)
