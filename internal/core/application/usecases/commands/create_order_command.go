package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new delivery order.
// Carries the raw customer input; addresses are resolved to coordinates and
// the price is computed by the handler.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	customerID         kernel.UUID
	originAddress      string
	destinationAddress string
	sizeClass          order.SizeClass
	weightKg           float64
	declaredValue      kernel.Money
	category           string
	urgency            order.Urgency

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// All malformed input is rejected here, before any state change.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	originAddress, destinationAddress string,
	sizeClass order.SizeClass,
	weightKg float64,
	declaredValue kernel.Money,
	category string,
	urgency order.Urgency,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		declaredValue: declaredValue,
		category:      category,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setAddresses(originAddress, destinationAddress),
		cmd.setPackage(sizeClass, weightKg),
		cmd.setUrgency(urgency),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the submitting customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// OriginAddress returns the pickup postal address.
func (c CreateOrderCommand) OriginAddress() string {
	return c.originAddress
}

// DestinationAddress returns the drop-off postal address.
func (c CreateOrderCommand) DestinationAddress() string {
	return c.destinationAddress
}

// SizeClass returns the declared package size class.
func (c CreateOrderCommand) SizeClass() order.SizeClass {
	return c.sizeClass
}

// WeightKg returns the declared package weight.
func (c CreateOrderCommand) WeightKg() float64 {
	return c.weightKg
}

// DeclaredValue returns the declared package value, zero when undeclared.
func (c CreateOrderCommand) DeclaredValue() kernel.Money {
	return c.declaredValue
}

// Category returns the free-form package category.
func (c CreateOrderCommand) Category() string {
	return c.category
}

// Urgency returns the requested delivery urgency tier.
func (c CreateOrderCommand) Urgency() order.Urgency {
	return c.urgency
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setAddresses(origin, destination string) error {
	if origin == "" {
		return errs.NewValueIsRequiredError("originAddress")
	}
	if destination == "" {
		return errs.NewValueIsRequiredError("destinationAddress")
	}
	c.originAddress = origin
	c.destinationAddress = destination
	return nil
}

func (c *CreateOrderCommand) setPackage(sizeClass order.SizeClass, weightKg float64) error {
	if err := sizeClass.Validate(); err != nil {
		return err
	}
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%f kg is not greater than 0", weightKg))
	}
	c.sizeClass = sizeClass
	c.weightKg = weightKg
	return nil
}

func (c *CreateOrderCommand) setUrgency(urgency order.Urgency) error {
	if err := urgency.Validate(); err != nil {
		return err
	}
	c.urgency = urgency
	return nil
}
