package bundler

import "errors"

var (
	// ErrMissingDependency indicates the configured bundler driver is not available
	ErrMissingDependency = errors.New("bundler dependency missing")
	// ErrBuildFailed indicates the bundler reported errors for the build
	ErrBuildFailed = errors.New("bundler build failed")
	// ErrNoModules indicates none of the module patterns matched a file
	ErrNoModules = errors.New("no modules found")
)
