// =============================================================================
// Ledger Scanner - Field Names
// =============================================================================
//
// Ledger exports name their columns in Norwegian or English. This file maps
// the headers the scanners care about onto four canonical field names:
//
//   Dato                                   -> Date
//   Beløp, Belop, Beloep                   -> Amount
//   Beskrivelse, Tekst                     -> Description
//   Bilagsnummer, Bilagsnr, Bilag, Voucher -> VoucherNumber
//
// Matching is case-insensitive after trimming. Other headers pass through.
//
// =============================================================================

package ledger

import (
	"fmt"
	"strings"
)

// Canonical names of the fields the scanners read.
const (
	FieldDate          = "Date"
	FieldAmount        = "Amount"
	FieldDescription   = "Description"
	FieldVoucherNumber = "VoucherNumber"
)

// headerAliases maps lower-case column headers to canonical field names.
// Norwegian headers are what the bookkeeping exports this tool was written
// for actually contain.
var headerAliases = map[string]string{
	"date":           FieldDate,
	"dato":           FieldDate,
	"amount":         FieldAmount,
	"beløp":          FieldAmount,
	"belop":          FieldAmount,
	"beloep":         FieldAmount,
	"description":    FieldDescription,
	"beskrivelse":    FieldDescription,
	"tekst":          FieldDescription,
	"vouchernumber":  FieldVoucherNumber,
	"voucher number": FieldVoucherNumber,
	"voucher_number": FieldVoucherNumber,
	"voucher":        FieldVoucherNumber,
	"bilagsnummer":   FieldVoucherNumber,
	"bilagsnr":       FieldVoucherNumber,
	"bilag":          FieldVoucherNumber,
}

// CanonicalField maps a column header to the canonical field name it stands
// for. Headers that are not recognised are returned trimmed but otherwise
// unchanged.
func CanonicalField(header string) string {
	header = strings.TrimSpace(header)
	if name, ok := headerAliases[strings.ToLower(header)]; ok {
		return name
	}
	return header
}

// Headers turns a raw header row into field names: every header goes through
// CanonicalField and blank headers become "Column_<n>" (1-based).
func Headers(raw []string) []string {
	headers := make([]string, len(raw))
	for i, header := range raw {
		header = CanonicalField(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}
	return headers
}
