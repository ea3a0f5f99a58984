// Package section defines the fixed-size bit-packed words of the jsonb
// on-disk format: the 4-byte container header and the 4-byte entry word.
//
// Both are exposed as small value types with named accessors over the
// masked bits; calling code never touches the raw integers. The masks
// mirror the layout in the PostgreSQL source
// (src/include/utils/jsonb.h).
package section
