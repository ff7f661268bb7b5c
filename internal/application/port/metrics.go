package port

// Metrics records orchestration counters. Implementations must be cheap
// and safe for concurrent use.
type Metrics interface {
	SetLiveContexts(n int)
	IncContextsCreated()
	IncHibernations()
	IncDecisions(action string)
	IncLoadFailures()
	SetBadgeTotal(n int)
	SetDownloadProgress(progress float64)
	SetActiveDownloads(n int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) SetLiveContexts(int)         {}
func (NopMetrics) IncContextsCreated()         {}
func (NopMetrics) IncHibernations()            {}
func (NopMetrics) IncDecisions(string)         {}
func (NopMetrics) IncLoadFailures()            {}
func (NopMetrics) SetBadgeTotal(int)           {}
func (NopMetrics) SetDownloadProgress(float64) {}
func (NopMetrics) SetActiveDownloads(int)      {}
