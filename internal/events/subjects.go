package events

const (
	SubjectAHPCalculated       = "commeval.ahp.calculated"
	SubjectEvaluationCompleted = "commeval.evaluation.completed"
	SubjectMeasurementIngested = "commeval.measurement.ingested"

	StreamName     = "COMMEVAL_EVENTS"
	StreamSubjects = "commeval.>"
	StreamMaxAge   = "720h" // 30 days
)

func SubjectRunStored(runID string) string { return "commeval.evaluation.run." + runID + ".stored" }
