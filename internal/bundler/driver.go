package bundler

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Driver runs builds for one bundler implementation.
type Driver interface {
	Name() string
	Build(ctx context.Context, opts Options) (Stats, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by name. It panics if the driver is nil
// or a driver with the same name is already registered.
func Register(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("bundler: Register driver is nil")
	}
	name := driver.Name()
	if _, dup := drivers[name]; dup {
		panic("bundler: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not installed", ErrMissingDependency, name)
	}
	return driver, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
