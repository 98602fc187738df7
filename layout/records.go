package layout

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

// Field names of the research record.
const (
	FieldSignals       = "signals"
	FieldOpportunities = "opportunities"
	FieldStrength      = "signal-strength"
	FieldPriceMin      = "price-range-min"
	FieldPriceMax      = "price-range-max"
	FieldLiquidity     = "max-liquidity"
	FieldStrategy      = "strategy"
	FieldTimeframe     = "timeframe"
)

// Field names of the post record.
const (
	FieldPlatform   = "platform"
	FieldContent    = "content"
	FieldHashtags   = "hashtags"
	FieldEngagement = "engagement-score"
)

// Layout of a (ptr, len) pair inside a record.
const (
	PairSize   = 8 // u32 offset + u32 length
	PairPtrOff = 0
	PairLenOff = 4
)

// Record is a compiled, immutable record layout.
type Record struct {
	name string
	info Info
}

// Name returns the record's schema name.
func (r *Record) Name() string { return r.name }

// Size returns the record's total size in bytes, padding included.
func (r *Record) Size() uint32 { return r.info.Size }

// Align returns the record's alignment in bytes.
func (r *Record) Align() uint32 { return r.info.Align }

// Offset returns the byte offset of a field. Panics on an unknown field
// name: offsets are compile-time constants of the wire format, not data.
func (r *Record) Offset(field string) uint32 {
	off, ok := r.info.FieldOffs[field]
	if !ok {
		panic(fmt.Sprintf("layout: record %q has no field %q", r.name, field))
	}
	return off
}

// Research is the layout of the research record: the caller-owned input to
// scoring and content generation.
var Research = compile("research", []wit.Field{
	{Name: FieldSignals, Type: wit.S32{}},
	{Name: FieldOpportunities, Type: wit.S32{}},
	{Name: FieldStrength, Type: wit.F64{}},
	{Name: FieldPriceMin, Type: wit.F64{}},
	{Name: FieldPriceMax, Type: wit.F64{}},
	{Name: FieldLiquidity, Type: wit.S64{}},
	{Name: FieldStrategy, Type: wit.String{}},
	{Name: FieldTimeframe, Type: wit.String{}},
})

// Post is the layout of the post record: one generated content item. The
// hashtags field points at a packed array of (ptr, len) string pairs.
var Post = compile("post", []wit.Field{
	{Name: FieldPlatform, Type: wit.String{}},
	{Name: FieldContent, Type: wit.String{}},
	{Name: FieldHashtags, Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
	{Name: FieldEngagement, Type: wit.F64{}},
})

func compile(name string, fields []wit.Field) *Record {
	calc := NewCalculator()
	def := &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
	return &Record{name: name, info: calc.Calculate(def)}
}
