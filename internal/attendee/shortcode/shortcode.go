// Package shortcode derives the public badge code printed on attendee QR
// badges. The code is a pure function of immutable registration attributes,
// so it can be recomputed at any time without a lookup table.
package shortcode

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// MinLength is the padded minimum width of a derived code. 36 bits of hash
// do not always fit in 6 base-36 symbols, so codes may run one symbol longer;
// shorter values are zero-padded for printability.
const MinLength = 6

const entropyBits = 36

// Derive computes the badge code for an attendee: SHA-256 over the
// underscore-joined identity tuple, low-order 36 bits of the digest as an
// integer, encoded in uppercase base-36.
func Derive(barcode, email, firstName, lastName string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%s_%s", barcode, email, firstName, lastName)))

	// Low-order bits of the digest interpreted as a big-endian integer live
	// in the final bytes.
	tail := binary.BigEndian.Uint64(sum[len(sum)-8:])
	value := tail & (1<<entropyBits - 1)

	code := strings.ToUpper(strconv.FormatUint(value, 36))
	if len(code) < MinLength {
		code = strings.Repeat("0", MinLength-len(code)) + code
	}
	return code
}

// Normalize upper-cases a scanned code so lookups are case-insensitive, as
// QR scanners and manual entry disagree about letter case.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
