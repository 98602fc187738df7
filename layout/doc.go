// Package layout defines the fixed, C-compatible record layouts exchanged
// across the memory bridge. It is pure vocabulary: no function here touches
// linear memory.
//
// Record schemas are declared as WIT records and their sizes, alignments,
// and field offsets are derived with Canonical ABI rules: fields in
// declaration order, each aligned to its natural alignment, total size
// rounded up to the maximum field alignment. The resulting layout is the
// wire format; it must stay byte-stable across both sides of the boundary
// for any given build.
//
// # Record Layouts
//
//	Research (size 56, align 8)          Post (size 32, align 8)
//	──────────────────────────────       ──────────────────────────────
//	 0  signals        s32                0  platform       string
//	 4  opportunities  s32                8  content        string
//	 8  strength       f64               16  hashtags       list<string>
//	16  price_min      f64               24  engagement     f64
//	24  price_max      f64
//	32  liquidity      s64
//	40  strategy       string
//	48  timeframe      string
//
// A string or list field occupies 8 bytes in the record: a u32 offset
// followed by a u32 length/count. An offset of 0 means the field is absent.
// A non-null offset with length L declares exactly L readable bytes; readers
// must never read past L and must never assume a null terminator.
package layout
