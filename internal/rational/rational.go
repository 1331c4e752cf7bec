package rational

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrSyntax reports a value that is neither "N/D" nor a bare integer.
	ErrSyntax = errors.New("invalid rational syntax")
	// ErrZeroDenominator reports "N/0" with a non-zero numerator.
	ErrZeroDenominator = errors.New("zero denominator")
	// ErrDivisionByZero is returned when inverting a rational with a zero numerator.
	ErrDivisionByZero = errors.New("division by zero")
)

// ParseError describes a string that could not be read as a rational.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse rational %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Rational is an immutable fraction of arbitrary precision. Values are kept
// reduced with a positive denominator; 0/0 is the single zero-denominator
// value that can exist. It is the zero value and is also produced by parsing
// the literal ffprobe emits for unknown rates.
type Rational struct {
	v *big.Rat // nil means 0/0; never mutated once set
}

// Zero is 0/1.
var Zero = Rational{v: new(big.Rat)}

// New returns num/den in reduced form. A zero denominator with a non-zero
// numerator is rejected.
func New(num, den int64) (Rational, error) {
	return fromBig(big.NewInt(num), big.NewInt(den))
}

// Int returns n/1.
func Int(n int64) Rational {
	return Rational{v: new(big.Rat).SetInt64(n)}
}

// MustParse is Parse for package-level constants and tests.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse reads "N/D" or a bare integer. Both parts may exceed 64 bits.
func Parse(s string) (Rational, error) {
	trimmed := strings.TrimSpace(s)
	numText, denText, hasSlash := strings.Cut(trimmed, "/")
	if !hasSlash {
		denText = "1"
	}
	num, ok := parseInteger(numText)
	if !ok {
		return Rational{}, &ParseError{Value: s, Err: ErrSyntax}
	}
	den, ok := parseInteger(denText)
	if !ok {
		return Rational{}, &ParseError{Value: s, Err: ErrSyntax}
	}
	r, err := fromBig(num, den)
	if err != nil {
		return Rational{}, &ParseError{Value: s, Err: err}
	}
	return r, nil
}

func parseInteger(text string) (*big.Int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	return new(big.Int).SetString(text, 10)
}

func fromBig(num, den *big.Int) (Rational, error) {
	if den.Sign() == 0 {
		if num.Sign() != 0 {
			return Rational{}, ErrZeroDenominator
		}
		return Rational{}, nil
	}
	return Rational{v: new(big.Rat).SetFrac(num, den)}, nil
}

// Num returns a copy of the numerator.
func (r Rational) Num() *big.Int {
	if r.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.v.Num())
}

// Den returns a copy of the denominator. It is 0 only for the 0/0 value.
func (r Rational) Den() *big.Int {
	if r.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.v.Denom())
}

// IsUndefined reports whether r is the 0/0 value.
func (r Rational) IsUndefined() bool { return r.v == nil }

// IsZero reports whether r has a zero numerator (including 0/0).
func (r Rational) IsZero() bool { return r.v == nil || r.v.Sign() == 0 }

// Normalize maps 0/0 to 0/1 and leaves every other value untouched.
func (r Rational) Normalize() Rational {
	if r.v == nil {
		return Zero
	}
	return r
}

// Reciprocal returns den/num.
func (r Rational) Reciprocal() (Rational, error) {
	if r.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return Rational{v: new(big.Rat).Inv(r.v)}, nil
}

// Equal reports whether both values denote the same fraction.
func (r Rational) Equal(other Rational) bool {
	if r.v == nil || other.v == nil {
		return r.v == nil && other.v == nil
	}
	return r.v.Cmp(other.v) == 0
}

// HasFractionalPart reports whether num mod den is non-zero.
func (r Rational) HasFractionalPart() bool {
	return r.v != nil && !r.v.IsInt()
}

// Int returns the value truncated toward zero.
func (r Rational) Int() *big.Int {
	if r.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Quo(r.v.Num(), r.v.Denom())
}

// Float64 returns the nearest float64; 0/0 yields 0.
func (r Rational) Float64() float64 {
	if r.v == nil {
		return 0
	}
	f, _ := r.v.Float64()
	return f
}

// DisplayString renders the value the way ffmpeg prints stream rates:
// two decimals when fractional, a "k" multiple when divisible by 1000,
// otherwise the plain integer.
func (r Rational) DisplayString(suffix string) string {
	if r.HasFractionalPart() {
		return r.v.FloatString(2) + " " + suffix
	}
	value := r.Int()
	thousands, rem := new(big.Int).QuoRem(value, thousand, new(big.Int))
	if rem.Sign() == 0 {
		return thousands.String() + "k " + suffix
	}
	return value.String() + " " + suffix
}

var thousand = big.NewInt(1000)

// String returns "num/den".
func (r Rational) String() string {
	if r.v == nil {
		return "0/0"
	}
	return r.v.Num().String() + "/" + r.v.Denom().String()
}

// MarshalText encodes the value as "num/den".
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes "num/den" or a bare integer.
func (r *Rational) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
