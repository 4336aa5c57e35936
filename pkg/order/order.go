// Package order defines the data a magnet order carries into the sheet
// engine and back out to the notifier.
//
// An order is an [Info] (who ordered, how many magnets) plus a list of
// [Source] values, one per uploaded photo. Each source holds a finished
// square crop, already framed, rounded and encoded by the crop editor, and
// the number of printed copies wanted.
//
// The sheet engine lays out whatever it is given. Checking that the copy
// counts add up to the declared total is the job of intake, through
// [Validate], before a render is requested.
package order

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// MaxMagnets is the largest number of magnets a single order may declare.
const MaxMagnets = 100

// Info is the order metadata collected at intake.
type Info struct {
	OrderNumber  string `json:"orderNumber" toml:"order_number" yaml:"order_number"`
	CustomerName string `json:"customerName" toml:"customer_name" yaml:"customer_name"`
	Phone        string `json:"phone" toml:"phone" yaml:"phone"`
	TotalMagnets int    `json:"totalMagnets" toml:"total_magnets" yaml:"total_magnets"`
}

// Normalize trims surrounding whitespace from the text fields.
func (i Info) Normalize() Info {
	i.OrderNumber = strings.TrimSpace(i.OrderNumber)
	i.CustomerName = strings.TrimSpace(i.CustomerName)
	i.Phone = strings.TrimSpace(i.Phone)
	return i
}

// Validate checks the metadata on its own, without looking at sources.
func (i Info) Validate() error {
	if err := errors.ValidateOrderNumber(i.OrderNumber); err != nil {
		return err
	}
	if err := errors.ValidateCustomerName(i.CustomerName); err != nil {
		return err
	}
	if err := errors.ValidatePhone(i.Phone); err != nil {
		return err
	}
	if i.TotalMagnets < 1 || i.TotalMagnets > MaxMagnets {
		return errors.New(errors.ErrCodeInvalidQuantity, "total magnets must be between 1 and %d, got %d", MaxMagnets, i.TotalMagnets)
	}
	return nil
}

// Source is one uploaded photo after cropping.
type Source struct {
	// ID identifies the source across logs and placement reports.
	ID string `json:"id"`

	// Data is the encoded square crop, or a data: URL wrapping one.
	// An empty Data marks a slot the customer never finished cropping.
	Data []byte `json:"-"`

	// Quantity is the number of printed copies, zero or more.
	Quantity int `json:"quantity"`
}

// TotalQuantity returns the sum of all source quantities.
// Negative quantities count as zero, the same way the engine expands them.
func TotalQuantity(sources []Source) int {
	n := 0
	for _, s := range sources {
		n += max(s.Quantity, 0)
	}
	return n
}

// AssignIDs gives every source without an ID a fresh random one.
func AssignIDs(sources []Source) {
	for i := range sources {
		if sources[i].ID == "" {
			sources[i].ID = uuid.NewString()
		}
	}
}

// ClampQuantity limits a requested copy count so the order never exceeds
// its declared total. others is the quantity already assigned to every
// other source.
func ClampQuantity(requested, total, others int) int {
	return max(0, min(requested, total-others))
}

// Validate checks an order before it is rendered.
//
// It enforces what the order form enforces: valid metadata, one photo per
// slot at most, non-negative quantities, and copy counts that add up to
// exactly the declared total.
func Validate(info Info, sources []Source) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New(errors.ErrCodeInvalidOrder, "order has no photos")
	}
	if len(sources) > info.TotalMagnets {
		return errors.New(errors.ErrCodeTooManyPhotos, "%d photos for %d magnets", len(sources), info.TotalMagnets)
	}
	for i, s := range sources {
		if s.Quantity < 0 {
			return errors.New(errors.ErrCodeInvalidQuantity, "photo %d has negative quantity %d", i+1, s.Quantity)
		}
	}
	if got := TotalQuantity(sources); got != info.TotalMagnets {
		return errors.New(errors.ErrCodeQuantityMismatch, "quantities add up to %d magnets, order declares %d", got, info.TotalMagnets)
	}
	return nil
}
