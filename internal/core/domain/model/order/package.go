package order

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// SizeClass categorizes a package by physical size.
// The size class feeds the pricing engine through a per-class multiplier.
type SizeClass int

const (
	// SizeUnknown represents an invalid or undefined size class.
	SizeUnknown SizeClass = iota
	// SizeSmall fits in a standard courier bag.
	SizeSmall
	// SizeMedium requires a large bag or box.
	SizeMedium
	// SizeLarge requires a cargo rack.
	SizeLarge
	// SizeExtraLarge requires a vehicle.
	SizeExtraLarge
)

func getSizeClassStrings() map[SizeClass]string {
	return map[SizeClass]string{
		SizeUnknown:    "unknown",
		SizeSmall:      "small",
		SizeMedium:     "medium",
		SizeLarge:      "large",
		SizeExtraLarge: "extra_large",
	}
}

// SizeClassFromString parses a size class from its wire representation.
func SizeClassFromString(s string) (SizeClass, error) {
	for size, str := range getSizeClassStrings() {
		if str == s && size != SizeUnknown {
			return size, nil
		}
	}
	return SizeUnknown, errs.NewValueIsInvalidErrorWithCause("sizeClass",
		fmt.Errorf("%q is not a valid size class", s))
}

// Validate checks if the SizeClass value is one of the defined classes.
func (s SizeClass) Validate() error {
	if _, ok := getSizeClassStrings()[s]; !ok || s == SizeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("sizeClass",
			fmt.Errorf("%d is not a valid size class", s))
	}
	return nil
}

// String returns the wire name of the size class, e.g. "extra_large".
func (s SizeClass) String() string {
	if str, ok := getSizeClassStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Urgency is the delivery urgency tier chosen by the customer.
// The tier feeds the pricing engine through a per-tier multiplier.
type Urgency int

const (
	// UrgencyUnknown represents an invalid or undefined urgency.
	UrgencyUnknown Urgency = iota
	// UrgencyStandard is the default delivery tier.
	UrgencyStandard
	// UrgencyExpress is a faster tier with a raised fee multiplier.
	UrgencyExpress
	// UrgencyUrgent is the fastest tier with the highest fee multiplier.
	UrgencyUrgent
)

func getUrgencyStrings() map[Urgency]string {
	return map[Urgency]string{
		UrgencyUnknown:  "unknown",
		UrgencyStandard: "standard",
		UrgencyExpress:  "express",
		UrgencyUrgent:   "urgent",
	}
}

// UrgencyFromString parses an urgency tier from its wire representation.
func UrgencyFromString(s string) (Urgency, error) {
	for urgency, str := range getUrgencyStrings() {
		if str == s && urgency != UrgencyUnknown {
			return urgency, nil
		}
	}
	return UrgencyUnknown, errs.NewValueIsInvalidErrorWithCause("urgency",
		fmt.Errorf("%q is not a valid urgency tier", s))
}

// Validate checks if the Urgency value is one of the defined tiers.
func (u Urgency) Validate() error {
	if _, ok := getUrgencyStrings()[u]; !ok || u == UrgencyUnknown {
		return errs.NewValueIsInvalidErrorWithCause("urgency",
			fmt.Errorf("%d is not a valid urgency tier", u))
	}
	return nil
}

// String returns the wire name of the urgency tier, e.g. "express".
func (u Urgency) String() string {
	if str, ok := getUrgencyStrings()[u]; ok {
		return str
	}
	return "unknown"
}

// ErrPackageIsNotConstructed is returned when using an improperly initialized Package.
var ErrPackageIsNotConstructed = errs.NewValueIsRequiredError(
	"package must be created via NewPackage constructor")

// Package is the immutable descriptor of what is being delivered: size class,
// weight, optional declared value, and a free-form category.
//
// A zero declared value means the customer declared nothing; a declared value
// adds an insurance fee during pricing.
type Package struct { //nolint:recvcheck //using for validation
	sizeClass     SizeClass
	weightKg      float64
	declaredValue kernel.Money
	category      string

	guard guard.ConstructorGuard
}

// NewPackage creates a validated package descriptor.
// Weight must be strictly positive and finite; the size class must be valid.
// Category may be empty.
func NewPackage(sizeClass SizeClass, weightKg float64, declaredValue kernel.Money, category string) (Package, error) {
	p := Package{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setSizeClass(sizeClass),
		p.setWeight(weightKg),
	); err != nil {
		return Package{}, err
	}

	p.declaredValue = declaredValue
	p.category = category
	return p, nil
}

// Validate ensures the Package was created through NewPackage.
func (p Package) Validate() error {
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// SizeClass returns the package size class.
func (p Package) SizeClass() SizeClass {
	return p.sizeClass
}

// WeightKg returns the package weight in kilograms.
func (p Package) WeightKg() float64 {
	return p.weightKg
}

// DeclaredValue returns the customer-declared value; zero when undeclared.
func (p Package) DeclaredValue() kernel.Money {
	return p.declaredValue
}

// Category returns the free-form package category, e.g. "documents".
func (p Package) Category() string {
	return p.category
}

func (p *Package) setSizeClass(sizeClass SizeClass) error {
	if err := sizeClass.Validate(); err != nil {
		return err
	}
	p.sizeClass = sizeClass
	return nil
}

func (p *Package) setWeight(weightKg float64) error {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%f kg is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}
