package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Data source errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSourceUnavailable  = fmt.Errorf("data source unavailable")
	ErrInvalidDataset     = fmt.Errorf("invalid dataset")
	ErrNoData             = fmt.Errorf("no villager data available")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Catalog errors
	ErrVillagerNotFound = fmt.Errorf("villager not found")
	ErrInvalidVillager  = fmt.Errorf("invalid villager")
	ErrMissingField     = fmt.Errorf("missing required field")

	// State errors
	ErrPersistence  = fmt.Errorf("failed to persist state")
	ErrInvalidTheme = fmt.Errorf("invalid theme")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
