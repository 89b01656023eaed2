package pie

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be a finite number greater than zero")
	ErrInvalidPercent   = errors.New("percent must be greater than 0 and less than 100")
	ErrFounderRequired  = errors.New("founder is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrUnknownFounder   = errors.New("unknown founder")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrAutoCalculated   = errors.New("category is auto-calculated")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)
