// Package codec provides the student record type, its derived-field
// calculation, and serialization to and from the on-disk line format.
//
// # Line Format
//
// Records are stored one per line, pipe-delimited:
//
//	roll|name|mark1|mark2|mark3
//
// Fields:
//   - roll: integer, the unique record key
//   - name: free text; the delimiter is rejected at validation time
//   - marks: one score per subject, formatted with two fractional digits
//
// Decoding is deliberately lenient about marks: a line whose trailing mark
// tokens are missing or unparsable still decodes, with the absent marks
// taken as 0.0. A line without a usable roll and name is rejected and the
// caller is expected to skip it.
//
// # Derived Fields
//
// Total, Percentage and Grade are functions of Marks. Decode recomputes
// them unconditionally, so values persisted by an older writer are never
// authoritative. The grade thresholds, highest first, are:
//
//	>= 90 A+, >= 80 A, >= 70 B, >= 60 C, >= 50 D, else F
//
// # Thread Safety
//
// StudentCodec instances are stateless and safe for concurrent use.
package codec
