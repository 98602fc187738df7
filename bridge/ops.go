package bridge

import (
	"github.com/wippyai/membridge/errors"
	"github.com/wippyai/membridge/layout"
)

// Process scores the research record at recPtr. Pure with respect to the
// caller's memory: the record is read for the duration of the call only and
// a copy is kept as the context's snapshot.
func (b *Bridge) Process(h Handle, recPtr uint32) (float64, error) {
	c, ok := b.contexts.get(h)
	if !ok {
		return 0, errors.InvalidHandle(errors.PhaseValidate, uint32(h))
	}

	r, err := decodeResearch(b.mem, recPtr)
	if err != nil {
		return 0, err
	}

	sc, err := score(r)
	if err != nil {
		return 0, err
	}

	c.remember(r)
	return sc, nil
}

// GenerateContent renders the mode's template for the record at recPtr into
// the caller buffer at outPtr. The full output is formatted first; it must
// fit outCap including one terminator byte or the call fails without
// touching the buffer. On success the terminator is written after the
// content and the content length (terminator excluded) is returned. The
// generated post is recorded in the context.
func (b *Bridge) GenerateContent(h Handle, recPtr uint32, mode Mode, outPtr, outCap uint32) (uint32, error) {
	c, ok := b.contexts.get(h)
	if !ok {
		return 0, errors.InvalidHandle(errors.PhaseValidate, uint32(h))
	}
	if outPtr == 0 {
		return 0, errors.NilPointer(errors.PhaseValidate, nil, "output buffer")
	}

	r, err := decodeResearch(b.mem, recPtr)
	if err != nil {
		return 0, err
	}
	sc, err := score(r)
	if err != nil {
		return 0, err
	}

	content := renderContent(r, sc, mode)
	need := uint32(len(content)) + 1
	if need > outCap {
		return 0, errors.BufferTooSmall(errors.PhaseGenerate, need, outCap)
	}

	// Probe the terminator byte before writing anything, so a caller whose
	// outCap overstates the real memory left gets a clean failure instead
	// of partially visible content.
	if _, err := b.mem.Read(outPtr+need-1, 1); err != nil {
		return 0, errors.OutOfBounds(errors.PhaseValidate, []string{"output"}, outPtr, need)
	}

	if err := b.mem.Write(outPtr, []byte(content)); err != nil {
		return 0, errors.Wrap(errors.PhaseGenerate, errors.KindOutOfBounds, err, "write content")
	}
	if err := b.mem.WriteU8(outPtr+uint32(len(content)), 0); err != nil {
		return 0, errors.Wrap(errors.PhaseGenerate, errors.KindOutOfBounds, err, "write terminator")
	}

	c.remember(r)
	c.posts = append(c.posts, Post{
		Platform:   mode.String(),
		Content:    content,
		Hashtags:   mode.hashtags(),
		Engagement: sc,
	})
	return uint32(len(content)), nil
}

// BatchProcess scores count records laid out contiguously at recsPtr and
// writes one f64 per record at resultsPtr, in index order. The batch is
// atomic: every record is validated and scored before the first result is
// written, so a malformed record fails the whole call and leaves the
// results array untouched.
func (b *Bridge) BatchProcess(h Handle, recsPtr uint32, count uint32, resultsPtr uint32) (uint32, error) {
	c, ok := b.contexts.get(h)
	if !ok {
		return 0, errors.InvalidHandle(errors.PhaseValidate, uint32(h))
	}
	if recsPtr == 0 {
		return 0, errors.NilPointer(errors.PhaseValidate, nil, "record array")
	}
	if resultsPtr == 0 {
		return 0, errors.NilPointer(errors.PhaseValidate, nil, "results array")
	}
	if count == 0 {
		return 0, nil
	}

	stride := layout.Research.Size()
	scores := make([]float64, count)
	var last *Research

	for i := uint32(0); i < count; i++ {
		r, err := decodeResearch(b.mem, recsPtr+i*stride)
		if err != nil {
			return 0, err
		}
		sc, err := score(r)
		if err != nil {
			return 0, err
		}
		scores[i] = sc
		last = r
	}

	// Probe the far end of the results array before the first write so a
	// short array fails atomically too.
	if _, err := b.mem.Read(resultsPtr+(count-1)*8, 8); err != nil {
		return 0, errors.OutOfBounds(errors.PhaseValidate, []string{"results"}, resultsPtr, count*8)
	}

	for i, sc := range scores {
		if err := b.mem.WriteF64(resultsPtr+uint32(i)*8, sc); err != nil {
			return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write batch result")
		}
	}

	c.remember(last)
	return count, nil
}

// PostCount reports the number of posts generated through the context.
func (b *Bridge) PostCount(h Handle) (uint32, error) {
	c, ok := b.contexts.get(h)
	if !ok {
		return 0, errors.InvalidHandle(errors.PhaseValidate, uint32(h))
	}
	return uint32(len(c.posts)), nil
}

// CopyPost writes the index-th generated post as a post record at outPtr.
// The record's string payloads land in bridge-owned allocations tracked by
// the context, so they stay valid until the context is destroyed.
func (b *Bridge) CopyPost(h Handle, index uint32, outPtr uint32) error {
	c, ok := b.contexts.get(h)
	if !ok {
		return errors.InvalidHandle(errors.PhaseValidate, uint32(h))
	}
	if index >= uint32(len(c.posts)) {
		return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
			Path("posts").
			Detail("post index %d out of range (count %d)", index, len(c.posts)).
			Build()
	}
	return encodePost(b.mem, b.alloc, c.allocs, outPtr, &c.posts[index])
}
