package health

import "context"

// Status is the aggregated health status.
type Status string

const (
	Healthy  Status = "ok"
	Degraded Status = "degraded"
)

// CheckResult is an individual component outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
	// CheckEmpty marks a loaded but empty corpus: the server runs, every search comes back empty.
	CheckEmpty CheckResult = "empty"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	corpus CorpusSizer
	db     DBPinger
}

// New creates a Service. db is nil when the corpus is file-backed.
func New(corpus CorpusSizer, db DBPinger) *Service {
	return &Service{corpus: corpus, db: db}
}

// Check inspects the corpus and, when configured, pings the store.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	switch {
	case s.corpus == nil:
		checks["corpus"] = CheckError
	case s.corpus.Len() == 0:
		checks["corpus"] = CheckEmpty
	default:
		checks["corpus"] = CheckOK
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}
