package config

import (
	"fmt"
	"strings"

	"shellrun/pkg/runner"
	"shellrun/pkg/system"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, e := range es {
		sb.WriteString(fmt.Sprintf("  - %s\n", e.Error()))
	}
	return sb.String()
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, validateIncludes(c.Includes)...)

	join, err := runner.ParseJoinPolicy(c.Runner.Join)
	if err != nil {
		errs = append(errs, ValidationError{Field: "runner.join", Message: fmt.Sprintf("invalid join '%s', must be one of: space, concat", c.Runner.Join)})
	}
	if _, err := system.ParseStrategy(c.Runner.Strategy, join); err != nil {
		errs = append(errs, ValidationError{Field: "runner.strategy", Message: fmt.Sprintf("invalid strategy '%s', must be one of: shell, direct", c.Runner.Strategy)})
	}

	if c.Batch.Parallel < 0 {
		errs = append(errs, ValidationError{Field: "batch.parallel", Message: "parallel cannot be negative"})
	}

	errs = append(errs, validateJobNames(c.Jobs)...)
	for i, job := range c.Jobs {
		if len(job.Command) == 0 {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("jobs[%d].command", i), Message: "command cannot be empty"})
		}
		if job.Expect != nil && job.ExpectFile != "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("jobs[%d]", i), Message: "expect and expect-file are mutually exclusive"})
		}
	}

	return errs
}

func validateIncludes(includes []string) ValidationErrors {
	var errs ValidationErrors
	for i, include := range includes {
		if strings.TrimSpace(include) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("includes[%d]", i), Message: "include path cannot be empty"})
		}
	}
	return errs
}

func validateJobNames(jobs []Job) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)
	for i, job := range jobs {
		if strings.TrimSpace(job.Name) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("jobs[%d].name", i), Message: "job name cannot be empty"})
		} else if seen[job.Name] {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("jobs[%d].name", i), Message: fmt.Sprintf("duplicate job name '%s'", job.Name)})
		}
		seen[job.Name] = true
	}
	return errs
}
