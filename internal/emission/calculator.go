package emission

import (
	"errors"
	"fmt"
	"math"

	"github.com/noah-isme/ecolog-api/internal/models"
)

// Sentinel errors raised by the calculator. Callers translate them into the
// API error model.
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive finite number")
	ErrUnknownKind     = errors.New("unknown category type")
)

// QuantityTooLargeError reports a quantity above the per-entry ceiling.
type QuantityTooLargeError struct {
	Quantity float64
	Limit    float64
}

func (e *QuantityTooLargeError) Error() string {
	return fmt.Sprintf("quantity %g exceeds the limit of %g per entry", e.Quantity, e.Limit)
}

// Ceilings bound a single entry per category. They are soft UX guards and
// configurable at startup.
type Ceilings struct {
	TransportMinutes float64
	WasteItems       float64
	DigitalHours     float64
}

// DefaultCeilings mirror the input guards of the logging UI.
func DefaultCeilings() Ceilings {
	return Ceilings{
		TransportMinutes: 180,
		WasteItems:       50,
		DigitalHours:     24,
	}
}

// Computed is the result of evaluating one draft entry.
type Computed struct {
	// Quantity is the normalized amount: km for transport (converted from
	// minutes), items for waste, hours for digital.
	Quantity float64 `json:"quantity"`
	Co2Kg    float64 `json:"co2_kg"`
	Label    string  `json:"label"`
}

// Calculator converts raw activity input into CO2e mass using the static
// tables. It is pure: no side effects, no state beyond its configuration.
type Calculator struct {
	tables   Tables
	ceilings Ceilings
}

// NewCalculator builds a calculator over validated tables.
func NewCalculator(tables Tables, ceilings Ceilings) *Calculator {
	if ceilings.TransportMinutes <= 0 {
		ceilings.TransportMinutes = DefaultCeilings().TransportMinutes
	}
	if ceilings.WasteItems <= 0 {
		ceilings.WasteItems = DefaultCeilings().WasteItems
	}
	if ceilings.DigitalHours <= 0 {
		ceilings.DigitalHours = DefaultCeilings().DigitalHours
	}
	return &Calculator{tables: tables, ceilings: ceilings}
}

// Tables exposes the underlying coefficient tables.
func (c *Calculator) Tables() Tables {
	return c.tables
}

// Transport evaluates a trip entered as minutes of travel. The distance is
// derived from the mode's assumed average speed before the per-km factor
// applies.
func (c *Calculator) Transport(mode models.TransportMode, minutes float64) (Computed, error) {
	if err := checkQuantity(minutes, c.ceilings.TransportMinutes); err != nil {
		return Computed{}, err
	}
	factor, ok := c.tables.TransportFactor(mode)
	if !ok {
		return Computed{}, fmt.Errorf("%w: transport mode %q", ErrUnknownKind, mode)
	}
	distanceKm := (minutes / 60) * c.tables.AverageSpeed(mode)
	return Computed{
		Quantity: distanceKm,
		Co2Kg:    distanceKm * factor,
		Label:    c.tables.TransportLabel(mode),
	}, nil
}

// Waste evaluates a count of discarded items.
func (c *Calculator) Waste(item models.WasteItem, count float64) (Computed, error) {
	if err := checkQuantity(count, c.ceilings.WasteItems); err != nil {
		return Computed{}, err
	}
	factor, ok := c.tables.WasteFactor(item)
	if !ok {
		return Computed{}, fmt.Errorf("%w: waste item %q", ErrUnknownKind, item)
	}
	return Computed{
		Quantity: count,
		Co2Kg:    count * factor,
		Label:    c.tables.WasteLabel(item),
	}, nil
}

// Digital evaluates hours of device usage.
func (c *Calculator) Digital(device models.DeviceKind, hours float64) (Computed, error) {
	if err := checkQuantity(hours, c.ceilings.DigitalHours); err != nil {
		return Computed{}, err
	}
	factor, ok := c.tables.DigitalFactor(device)
	if !ok {
		return Computed{}, fmt.Errorf("%w: device kind %q", ErrUnknownKind, device)
	}
	return Computed{
		Quantity: hours,
		Co2Kg:    hours * factor,
		Label:    c.tables.DigitalLabel(device),
	}, nil
}

// Compute dispatches on category with the type given as its wire string.
func (c *Calculator) Compute(category models.Category, kind string, rawQuantity float64) (Computed, error) {
	switch category {
	case models.CategoryTransport:
		return c.Transport(models.TransportMode(kind), rawQuantity)
	case models.CategoryWaste:
		return c.Waste(models.WasteItem(kind), rawQuantity)
	case models.CategoryDigital:
		return c.Digital(models.DeviceKind(kind), rawQuantity)
	default:
		return Computed{}, fmt.Errorf("%w: category %q", ErrUnknownKind, category)
	}
}

func checkQuantity(quantity, limit float64) error {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > limit {
		return &QuantityTooLargeError{Quantity: quantity, Limit: limit}
	}
	return nil
}
