package model

import "time"

type JobStatus string

const (
	JobSucceeded       JobStatus = "succeeded"
	JobPartiallyFailed JobStatus = "partially_failed"
	JobFailed          JobStatus = "failed"
)

// PartitionOutcome summarizes one partition's pipeline instance.
type PartitionOutcome struct {
	Partition          int      `json:"partition"`
	Records            int      `json:"records"`
	Currencies         int      `json:"currencies"`
	SkippedSimple      []string `json:"skipped_simple,omitempty"`
	SkippedExponential []string `json:"skipped_exponential,omitempty"`
	Error              string   `json:"error,omitempty"`
	Err                error    `json:"-"`
}

func (o PartitionOutcome) Failed() bool {
	return o.Err != nil || o.Error != ""
}

type JobReport struct {
	ID                  string             `json:"id"`
	WindowSize          int                `json:"window_size"`
	Status              JobStatus          `json:"status"`
	StartedAt           time.Time          `json:"started_at"`
	Elapsed             time.Duration      `json:"elapsed"`
	SimpleCount         int                `json:"simple_count"`
	ExponentialCount    int                `json:"exponential_count"`
	Partitions          []PartitionOutcome `json:"partitions"`
	SucceededPartitions []int              `json:"succeeded_partitions"`
	FailedPartitions    []int              `json:"failed_partitions,omitempty"`
}
