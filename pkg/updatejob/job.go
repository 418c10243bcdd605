package updatejob

import (
	"fmt"
	"strings"
)

// Job is one remote importer to refresh: Path selects the importer and every
// id in JobIDs is triggered in order.
type Job struct {
	Name   string `yaml:"name" json:"name"`
	Path   string `yaml:"path" json:"path"`
	JobIDs []int  `yaml:"job_ids" json:"job_ids"`
}

// Validate checks that the job can be triggered.
func (j Job) Validate() error {
	if strings.Trim(j.Path, "/ ") == "" {
		return fmt.Errorf("update job %q: path is required", j.Name)
	}
	if len(j.JobIDs) == 0 {
		return fmt.Errorf("update job %q: at least one job id is required", j.Name)
	}
	for _, id := range j.JobIDs {
		if id <= 0 {
			return fmt.Errorf("update job %q: invalid job id %d", j.Name, id)
		}
	}
	return nil
}

func (j Job) label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Path
}

func cloneJobs(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		j.JobIDs = append([]int(nil), j.JobIDs...)
		out[i] = j
	}
	return out
}
