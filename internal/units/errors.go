package units

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrLocalization          = errors.New("localization failed")
	ErrZeroDenominator       = errors.New("compound denominator is zero")
)

// UnknownUnitError reports an identifier that is not in the vocabulary.
type UnknownUnitError struct {
	Identifier string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Identifier)
}

func (e *UnknownUnitError) Is(target error) bool { return target == ErrUnknownUnit }

// UnsupportedConversionError reports a conversion outside the source unit's
// family. Reaching it in production is a schema or programming defect.
type UnsupportedConversionError struct {
	From Unit
	To   Unit
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s)",
		e.From, familyOrUnknown(e.From), e.To, familyOrUnknown(e.To))
}

func (e *UnsupportedConversionError) Is(target error) bool {
	return target == ErrUnsupportedConversion
}

// LocalizationError reports that a configured display unit could not be
// applied. The caller keeps the original measurement.
type LocalizationError struct {
	Kind string // compound kind or scalar family
	Name string // offending configured name, empty when nothing is configured
	Err  error
}

func (e *LocalizationError) Error() string {
	switch {
	case e.Name == "":
		return fmt.Sprintf("localize %s: no preferred units configured", e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("localize %s to %q: %v", e.Kind, e.Name, e.Err)
	default:
		return fmt.Sprintf("localize %s: unknown unit name %q", e.Kind, e.Name)
	}
}

func (e *LocalizationError) Is(target error) bool { return target == ErrLocalization }

func (e *LocalizationError) Unwrap() error { return e.Err }

func familyOrUnknown(u Unit) string {
	if f := u.Family(); f != "" {
		return string(f)
	}
	return "unknown"
}
