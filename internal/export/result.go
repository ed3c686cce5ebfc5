package export

import "github.com/wolfeidau/playground/internal/bundler"

// Reason classifies how an export ended.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonMissingDependency means the bundler driver isn't available, nothing was written
	ReasonMissingDependency
	// ReasonConfig covers project and bundler configuration errors
	ReasonConfig
	// ReasonBuild means the bundler reported an error
	ReasonBuild
	// ReasonFilesystem covers copy and write failures, the output may be partial
	ReasonFilesystem
	// ReasonInternal means the export panicked
	ReasonInternal
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMissingDependency:
		return "missing_dependency"
	case ReasonConfig:
		return "config"
	case ReasonBuild:
		return "build"
	case ReasonFilesystem:
		return "filesystem"
	case ReasonInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Result is the outcome of one export run.
type Result struct {
	ID         string
	OutputPath string
	Stats      bundler.Stats
	Reason     Reason
	Err        error
}

// OK reports whether the export completed.
func (r Result) OK() bool {
	return r.Reason == ReasonNone && r.Err == nil
}

func failed(res Result, reason Reason, err error) Result {
	res.Reason = reason
	res.Err = err
	return res
}
