package bridge

import (
	"unicode/utf8"

	"github.com/wippyai/membridge"
	"github.com/wippyai/membridge/errors"
	"github.com/wippyai/membridge/layout"
)

// Research is a decoded view of a caller-owned research record. The text
// fields alias the shared memory and are valid only for the duration of the
// boundary call that produced the view; anything retained must be copied.
type Research struct {
	Signals       int32
	Opportunities int32
	Strength      float64
	PriceMin      float64
	PriceMax      float64
	Liquidity     int64
	Strategy      []byte
	Timeframe     []byte
}

// Post is one generated content item. Unlike Research it owns its strings:
// posts live in the context after the call that produced them returns.
type Post struct {
	Platform   string
	Content    string
	Hashtags   []string
	Engagement float64
}

// readPair reads a (ptr, len) pair at off and returns the referenced bytes,
// or nil when the pointer is null.
func readPair(mem membridge.Memory, off uint32, path ...string) ([]byte, error) {
	ptr, err := mem.ReadU32(off + layout.PairPtrOff)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read text pointer")
	}
	length, err := mem.ReadU32(off + layout.PairLenOff)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read text length")
	}
	if ptr == 0 {
		return nil, nil
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseDecode, path, ptr, length)
	}
	return data, nil
}

// decodeResearch builds a borrowed view of the research record at ptr.
func decodeResearch(mem membridge.Memory, ptr uint32) (*Research, error) {
	if ptr == 0 {
		return nil, errors.NilPointer(errors.PhaseValidate, nil, "research record")
	}

	rec := layout.Research
	var (
		r   Research
		err error
	)

	if v, e := mem.ReadU32(ptr + rec.Offset(layout.FieldSignals)); e == nil {
		r.Signals = int32(v)
	} else {
		err = e
	}
	if v, e := mem.ReadU32(ptr + rec.Offset(layout.FieldOpportunities)); e == nil {
		r.Opportunities = int32(v)
	} else {
		err = e
	}
	if v, e := mem.ReadF64(ptr + rec.Offset(layout.FieldStrength)); e == nil {
		r.Strength = v
	} else {
		err = e
	}
	if v, e := mem.ReadF64(ptr + rec.Offset(layout.FieldPriceMin)); e == nil {
		r.PriceMin = v
	} else {
		err = e
	}
	if v, e := mem.ReadF64(ptr + rec.Offset(layout.FieldPriceMax)); e == nil {
		r.PriceMax = v
	} else {
		err = e
	}
	if v, e := mem.ReadU64(ptr + rec.Offset(layout.FieldLiquidity)); e == nil {
		r.Liquidity = int64(v)
	} else {
		err = e
	}
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"research"}, ptr, rec.Size())
	}

	if r.Strategy, err = readPair(mem, ptr+rec.Offset(layout.FieldStrategy), "research", "strategy"); err != nil {
		return nil, err
	}
	if r.Timeframe, err = readPair(mem, ptr+rec.Offset(layout.FieldTimeframe), "research", "timeframe"); err != nil {
		return nil, err
	}

	// Text fields become Go strings in snapshots and rendered content, so
	// they must be well-formed before the record is accepted.
	if !utf8.Valid(r.Strategy) {
		return nil, errors.InvalidUTF8(errors.PhaseDecode, []string{"research", "strategy"}, r.Strategy)
	}
	if !utf8.Valid(r.Timeframe) {
		return nil, errors.InvalidUTF8(errors.PhaseDecode, []string{"research", "timeframe"}, r.Timeframe)
	}

	return &r, nil
}

// allocBytes copies data into a fresh boundary allocation tracked by allocs
// and returns its offset. Empty data yields a null pointer.
func allocBytes(alloc membridge.Allocator, mem membridge.Memory, allocs *AllocationList, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	size := uint32(len(data))
	ptr, err := alloc.Alloc(size, 1)
	if err != nil || ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, 1)
	}
	allocs.Add(ptr, size, 1)
	if err := mem.Write(ptr, data); err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write allocated text")
	}
	return ptr, nil
}

// encodePost writes p as a post record at ptr. String payloads and the
// hashtag pair array land in fresh boundary allocations tracked by allocs,
// so they outlive the call until the owning context is destroyed.
func encodePost(mem membridge.Memory, alloc membridge.Allocator, allocs *AllocationList, ptr uint32, p *Post) error {
	if ptr == 0 {
		return errors.NilPointer(errors.PhaseValidate, nil, "post record")
	}

	rec := layout.Post

	writePair := func(off uint32, data []byte) error {
		dataPtr, err := allocBytes(alloc, mem, allocs, data)
		if err != nil {
			return err
		}
		if err := mem.WriteU32(off+layout.PairPtrOff, dataPtr); err != nil {
			return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write text pointer")
		}
		return mem.WriteU32(off+layout.PairLenOff, uint32(len(data)))
	}

	if err := writePair(ptr+rec.Offset(layout.FieldPlatform), []byte(p.Platform)); err != nil {
		return err
	}
	if err := writePair(ptr+rec.Offset(layout.FieldContent), []byte(p.Content)); err != nil {
		return err
	}

	// Hashtags: a packed array of (ptr, len) pairs, one per tag.
	var tagsPtr uint32
	if n := uint32(len(p.Hashtags)); n > 0 {
		var err error
		tagsPtr, err = alloc.Alloc(n*layout.PairSize, 4)
		if err != nil || tagsPtr == 0 {
			return errors.AllocationFailed(errors.PhaseAlloc, n*layout.PairSize, 4)
		}
		allocs.Add(tagsPtr, n*layout.PairSize, 4)
		for i, tag := range p.Hashtags {
			if err := writePair(tagsPtr+uint32(i)*layout.PairSize, []byte(tag)); err != nil {
				return err
			}
		}
	}
	hashOff := ptr + rec.Offset(layout.FieldHashtags)
	if err := mem.WriteU32(hashOff+layout.PairPtrOff, tagsPtr); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write hashtag array pointer")
	}
	if err := mem.WriteU32(hashOff+layout.PairLenOff, uint32(len(p.Hashtags))); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write hashtag count")
	}

	if err := mem.WriteF64(ptr+rec.Offset(layout.FieldEngagement), p.Engagement); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write engagement score")
	}
	return nil
}
