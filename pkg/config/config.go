package config

import (
	"fmt"
	"path/filepath"

	"shellrun/pkg/log"
	"shellrun/pkg/runner"
	"shellrun/pkg/system"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file used when --config is not given.
const DefaultFile = "./shellrun.yaml"

type Config struct {
	Includes []string     `yaml:"includes,omitempty"` // List of config files to include and merge
	Runner   RunnerConfig `yaml:"runner"`
	Batch    BatchConfig  `yaml:"batch"`
	Jobs     []Job        `yaml:"jobs"`
}

type RunnerConfig struct {
	Strategy         string `yaml:"strategy,omitempty"` // shell or direct
	Join             string `yaml:"join,omitempty"`     // space or concat
	WorkingDir       string `yaml:"working-dir,omitempty"`
	AllowNonZeroExit *bool  `yaml:"allow-nonzero-exit,omitempty"` // nil leaves the included value
}

type BatchConfig struct {
	Parallel int `yaml:"parallel,omitempty"`
}

// Job is a named command run by the batch subcommand.
type Job struct {
	Name       string   `yaml:"name"`
	Command    []string `yaml:"command"`
	Dir        string   `yaml:"dir,omitempty"`
	Expect     *string  `yaml:"expect,omitempty"` // nil means no expectation
	ExpectFile string   `yaml:"expect-file,omitempty"`
}

// LoadConfig reads filename and its includes, merges them and validates the result.
func LoadConfig(filename string, logger log.Logger) (*Config, error) {
	cfg, err := loadConfigFile(filename, logger)
	if err != nil {
		return nil, err
	}

	// Validate includes before processing
	if errs := validateIncludes(cfg.Includes); len(errs) > 0 {
		return nil, errs
	}

	if len(cfg.Includes) > 0 {
		cfg, err = processIncludes(cfg, filename, logger)
		if err != nil {
			return nil, err
		}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return &cfg, nil
}

// RunnerOptions converts the runner section into options for system.NewLiveCommandRunner.
func (c *Config) RunnerOptions(logger log.Logger) (system.Options, error) {
	join, err := runner.ParseJoinPolicy(c.Runner.Join)
	if err != nil {
		return system.Options{}, err
	}
	strategy, err := system.ParseStrategy(c.Runner.Strategy, join)
	if err != nil {
		return system.Options{}, err
	}
	return system.Options{
		Strategy:         strategy,
		WorkDir:          c.Runner.WorkingDir,
		AllowNonZeroExit: c.Runner.AllowNonZeroExit != nil && *c.Runner.AllowNonZeroExit,
		Logger:           logger,
	}, nil
}

// Job returns the job with the given name.
func (c *Config) Job(name string) (Job, bool) {
	for _, job := range c.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return Job{}, false
}

func processIncludes(cfg Config, baseFile string, logger log.Logger) (Config, error) {
	visited := make(map[string]bool) // For cycle detection
	return processIncludesRecursive(cfg, baseFile, visited, logger)
}

func processIncludesRecursive(cfg Config, baseFile string, visited map[string]bool, logger log.Logger) (Config, error) {
	result := &Config{}

	absBase, err := filepath.Abs(baseFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve absolute path for %s: %w", baseFile, err)
	}
	if visited[absBase] {
		return Config{}, fmt.Errorf("circular include detected: %s", baseFile)
	}
	// Only the current include chain counts; siblings may share an include.
	visited[absBase] = true
	defer delete(visited, absBase)

	for _, includePath := range cfg.Includes {
		resolvedPath := resolveRelative(baseFile, includePath)

		includedCfg, err := loadConfigFile(resolvedPath, logger)
		if err != nil {
			return Config{}, fmt.Errorf("failed to load include '%s': %w", includePath, err)
		}

		if len(includedCfg.Includes) > 0 {
			includedCfg, err = processIncludesRecursive(includedCfg, resolvedPath, visited, logger)
			if err != nil {
				return Config{}, err
			}
		}

		result = mergeConfigs(result, &includedCfg, logger)
	}

	// The including file has the highest priority
	result = mergeConfigs(result, &cfg, logger)

	return *result, nil
}

func loadConfigFile(filename string, logger log.Logger) (Config, error) {
	f, err := afero.ReadFile(system.AppFs, filename)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing %s: %w", filename, err)
	}

	// Names must be unique within a file; merging would otherwise hide duplicates
	if errs := validateJobNames(cfg.Jobs); len(errs) > 0 {
		return Config{}, fmt.Errorf("%s: %w", filename, errs)
	}

	// Paths inside a file are relative to that file
	if cfg.Runner.WorkingDir != "" {
		cfg.Runner.WorkingDir = resolveRelative(filename, cfg.Runner.WorkingDir)
	}
	for i := range cfg.Jobs {
		if cfg.Jobs[i].Dir != "" {
			cfg.Jobs[i].Dir = resolveRelative(filename, cfg.Jobs[i].Dir)
		}
		if cfg.Jobs[i].ExpectFile != "" {
			cfg.Jobs[i].ExpectFile = resolveRelative(filename, cfg.Jobs[i].ExpectFile)
		}
	}

	logger.Debug("Loaded config file", "path", filename, "jobs", len(cfg.Jobs))
	return cfg, nil
}

func resolveRelative(baseFile, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(baseFile), path)
}

// mergeConfigs merges two configurations, override taking priority:
// - Runner and batch settings: non-empty override values win
// - Jobs: last-wins by name, keeping first-seen order
func mergeConfigs(base, override *Config, logger log.Logger) *Config {
	result := &Config{
		Runner: base.Runner,
		Batch:  base.Batch,
	}

	if override.Runner.Strategy != "" {
		result.Runner.Strategy = override.Runner.Strategy
	}
	if override.Runner.Join != "" {
		result.Runner.Join = override.Runner.Join
	}
	if override.Runner.WorkingDir != "" {
		result.Runner.WorkingDir = override.Runner.WorkingDir
	}
	if override.Runner.AllowNonZeroExit != nil {
		result.Runner.AllowNonZeroExit = override.Runner.AllowNonZeroExit
	}
	if override.Batch.Parallel != 0 {
		result.Batch.Parallel = override.Batch.Parallel
	}

	result.Jobs = mergeJobs(base.Jobs, override.Jobs, logger)

	// Note: Includes are NOT merged (already processed)
	return result
}

func mergeJobs(base, override []Job, logger log.Logger) []Job {
	index := make(map[string]int)
	result := []Job{}

	for _, job := range base {
		index[job.Name] = len(result)
		result = append(result, job)
	}
	for _, job := range override {
		if i, ok := index[job.Name]; ok {
			logger.Warn("Job overridden by later config", "job", job.Name)
			result[i] = job
			continue
		}
		index[job.Name] = len(result)
		result = append(result, job)
	}
	return result
}
