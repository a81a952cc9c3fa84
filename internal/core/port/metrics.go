package port

// Metrics is an interface to define lifecycle instrumentation
type Metrics interface {
	IncUpload(status string)
	ObserveTranscode(outcome string, seconds float64)
	AddSwept(count int)
	SetArtifacts(count int)
}
