// Package numeric decodes the PostgreSQL packed-decimal on-disk encoding
// into exact decimal values.
//
// A packed numeric starts with a 2-byte header word whose top two bits
// select the variant: short (compact packed-digit form), special
// (NaN/Infinity sentinels), or long. The long variant is deliberately
// unsupported: its byte layout is not specified here and is rejected with
// errs.ErrLongNumericUnsupported rather than guessed.
//
// Values are represented in base 10000: each on-disk "digit" is a uint16
// in [0, 9999], most significant first, and the weight assigns a power of
// 10000 to the first digit. The display scale bits in the short header
// are not needed to reconstruct the value and are ignored.
package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/pgbin/jsonb/endian"
	"github.com/pgbin/jsonb/errs"
)

// NBase is the radix of packed digits.
const NBase = 10000

// Wire layout of the 2-byte numeric header, from the PostgreSQL source
// (src/backend/utils/adt/numeric.c).
const (
	headerVariantMask = 0xC000 // top two bits select the variant
	headerPos         = 0x0000 // long format, positive
	headerNeg         = 0x4000 // long format, negative
	headerShort       = 0x8000 // short format
	headerSpecial     = 0xC000 // NaN or Infinity

	// Special values use the full header word; the low bits are reserved
	// and must be zero.
	headerNaN    = 0xC000
	headerPosInf = 0xD000
	headerNegInf = 0xF000

	// Short format: the remaining 14 header bits pack sign, display
	// scale and weight.
	shortSignMask       = 0x2000
	shortDScaleMask     = 0x1F80
	shortDScaleShift    = 7
	shortWeightSignMask = 0x0040
	shortWeightMask     = 0x003F
)

var nbase = big.NewInt(NBase)

// Decode decodes a packed numeric from data, which must span exactly the
// numeric payload (header word plus digits, varlena header already
// stripped).
//
// Returns:
//   - Number: Decoded value (finite, NaN or an infinity)
//   - error: errs.ErrOutOfBounds on a truncated payload,
//     errs.ErrBadNumericHeader on unknown special patterns or a ragged
//     digit area, errs.ErrLongNumericUnsupported for the long variant
func Decode(data []byte) (Number, error) {
	if len(data) < 2 {
		return Number{}, fmt.Errorf("numeric header needs 2 bytes, have %d: %w",
			len(data), errs.ErrOutOfBounds)
	}

	head := endian.Little().Uint16(data[0:2])
	switch head & headerVariantMask {
	case headerShort:
		return decodeShort(head, data[2:])
	case headerSpecial:
		return decodeSpecial(head)
	default:
		// headerPos or headerNeg: the long format.
		return Number{}, fmt.Errorf("header 0x%04x: %w", head, errs.ErrLongNumericUnsupported)
	}
}

// decodeSpecial maps a special header word to its non-finite value. The
// reserved low bits must be zero, so the whole word is matched.
func decodeSpecial(head uint16) (Number, error) {
	switch head {
	case headerNaN:
		return NaN(), nil
	case headerPosInf:
		return Inf(1), nil
	case headerNegInf:
		return Inf(-1), nil
	default:
		return Number{}, fmt.Errorf("special header 0x%04x: %w", head, errs.ErrBadNumericHeader)
	}
}

// decodeShort reconstructs a short-format value from its header word and
// digit area.
//
// The digits form a base-10000 integer, most significant first. With
// ndigits digits and the given weight, the true value is that integer
// scaled by 10000^(weight+1-ndigits); the scaling is applied once as an
// exact decimal exponent instead of by repeated float division, so no
// precision is lost for any weight/digit combination.
func decodeShort(head uint16, digits []byte) (Number, error) {
	if len(digits)%2 != 0 {
		return Number{}, fmt.Errorf("ragged digit area of %d bytes: %w",
			len(digits), errs.ErrBadNumericHeader)
	}

	weight := int(head & shortWeightMask)
	if head&shortWeightSignMask != 0 {
		weight -= shortWeightMask + 1
	}

	engine := endian.Little()
	acc := new(big.Int)
	d := new(big.Int)
	for p := 0; p < len(digits); p += 2 {
		d.SetUint64(uint64(engine.Uint16(digits[p : p+2])))
		acc.Mul(acc, nbase).Add(acc, d)
	}

	ndigits := len(digits) / 2
	shift := ndigits - weight - 1
	dec := decimal.NewFromBigInt(acc, int32(-4*shift)) //nolint:gosec // shift bounded by weight range and digit count

	if head&shortSignMask != 0 {
		dec = dec.Neg()
	}

	return Number{form: FormFinite, dec: dec}, nil
}

// Form identifies the shape of a decoded Number.
type Form uint8

const (
	FormFinite Form = iota
	FormNaN
	FormPosInf
	FormNegInf
)

func (f Form) String() string {
	switch f {
	case FormFinite:
		return "finite"
	case FormNaN:
		return "NaN"
	case FormPosInf:
		return "Infinity"
	case FormNegInf:
		return "-Infinity"
	default:
		return "unknown"
	}
}

// Number is a decoded numeric value: either a finite arbitrary-precision
// decimal or one of the non-finite sentinels the format can store.
//
// The zero value is the finite number 0.
type Number struct {
	form Form
	dec  decimal.Decimal
}

// FromDecimal wraps a decimal as a finite Number.
func FromDecimal(d decimal.Decimal) Number {
	return Number{form: FormFinite, dec: d}
}

// FromInt64 returns a finite Number holding v.
func FromInt64(v int64) Number {
	return Number{form: FormFinite, dec: decimal.NewFromInt(v)}
}

// FromString parses s as a finite Number. Intended for building expected
// values; it accepts whatever decimal.NewFromString accepts.
func FromString(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, err
	}

	return Number{form: FormFinite, dec: d}, nil
}

// NaN returns the not-a-number sentinel.
func NaN() Number {
	return Number{form: FormNaN}
}

// Inf returns positive infinity if sign >= 0, negative infinity
// otherwise.
func Inf(sign int) Number {
	if sign >= 0 {
		return Number{form: FormPosInf}
	}

	return Number{form: FormNegInf}
}

// Form returns the shape of the number.
func (n Number) Form() Form {
	return n.form
}

// IsFinite reports whether the number is an ordinary decimal.
func (n Number) IsFinite() bool {
	return n.form == FormFinite
}

// IsNaN reports whether the number is the NaN sentinel.
func (n Number) IsNaN() bool {
	return n.form == FormNaN
}

// IsInf reports whether the number is an infinity: positive if sign > 0,
// negative if sign < 0, either if sign == 0.
func (n Number) IsInf(sign int) bool {
	switch {
	case sign > 0:
		return n.form == FormPosInf
	case sign < 0:
		return n.form == FormNegInf
	default:
		return n.form == FormPosInf || n.form == FormNegInf
	}
}

// Decimal returns the exact decimal value. It is only meaningful for
// finite numbers; non-finite forms return the zero decimal.
func (n Number) Decimal() decimal.Decimal {
	return n.dec
}

// Float64 returns the value as a float64, possibly losing precision.
// Non-finite forms map to the corresponding IEEE values.
func (n Number) Float64() float64 {
	switch n.form {
	case FormNaN:
		return math.NaN()
	case FormPosInf:
		return math.Inf(1)
	case FormNegInf:
		return math.Inf(-1)
	default:
		return n.dec.InexactFloat64()
	}
}

// Int64 returns the value as an int64 and true if it is finite, integral
// and in range.
func (n Number) Int64() (int64, bool) {
	if n.form != FormFinite || !n.dec.IsInteger() {
		return 0, false
	}

	bi := n.dec.BigInt()
	if !bi.IsInt64() {
		return 0, false
	}

	return bi.Int64(), true
}

// String renders finite values in plain decimal notation and non-finite
// values with their PostgreSQL spellings.
func (n Number) String() string {
	if n.form == FormFinite {
		return n.dec.String()
	}

	return n.form.String()
}

// Equal reports structural equality: equal forms and, for finite values,
// equal decimals. Unlike IEEE comparison, NaN equals NaN, which is what
// tree comparisons want.
func (n Number) Equal(other Number) bool {
	if n.form != other.form {
		return false
	}
	if n.form != FormFinite {
		return true
	}

	return n.dec.Equal(other.dec)
}
