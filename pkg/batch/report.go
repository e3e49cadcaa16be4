package batch

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Report summarizes a run. It never contains passwords.
type Report struct {
	RunID          string         `yaml:"run_id"`
	StartedAt      time.Time      `yaml:"started_at"`
	Duration       time.Duration  `yaml:"duration"`
	Total          int            `yaml:"total"`
	Accepted       int            `yaml:"accepted"`
	Rejected       int            `yaml:"rejected"`
	Failed         int            `yaml:"failed"`
	RejectedByRule map[string]int `yaml:"rejected_by_rule,omitempty"`
	Aborted        bool           `yaml:"aborted"`
}

func (r *Report) add(res Result) {
	r.Total++
	switch res.Status {
	case StatusAccepted:
		r.Accepted++
	case StatusRejected:
		r.Rejected++
		if res.Failure != nil {
			if r.RejectedByRule == nil {
				r.RejectedByRule = make(map[string]int)
			}
			r.RejectedByRule[res.Failure.Rule]++
		}
	case StatusFailed:
		r.Failed++
	}
}

// YAML renders the report as a YAML document.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
