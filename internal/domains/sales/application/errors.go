package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid sale input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoLineItems) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrNegativeUnitPrice) ||
		errors.Is(err, ports.ErrProductNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
