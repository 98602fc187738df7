package bridge

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/membridge/layout"
)

func TestProcess_Sample(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	sc, err := b.Process(h, rec)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if sc <= 0 {
		t.Errorf("expected positive score, got %v", sc)
	}

	want := 45 * 1.247 * (math.Log(12_500_000) / 10.0) * 1.08
	if math.Abs(sc-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, sc)
	}
}

func TestProcess_Sentinels(t *testing.T) {
	b, a := newTestBridge(t)
	abi := b.ABI()

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	if got := abi.Process(0, rec); got != ScoreInvalid {
		t.Errorf("null handle: expected %v, got %v", ScoreInvalid, got)
	}
	if got := abi.Process(uint32(h), 0); got != ScoreInvalid {
		t.Errorf("null record: expected %v, got %v", ScoreInvalid, got)
	}
	if got := abi.Process(9999, rec); got != ScoreInvalid {
		t.Errorf("stale handle: expected %v, got %v", ScoreInvalid, got)
	}

	// Defined failure for the logarithm domain, not NaN propagation.
	bad := sampleInput()
	bad.liquidity = 1
	badRec := writeResearch(t, a, bad)
	if got := abi.Process(uint32(h), badRec); got != ScoreInvalid {
		t.Errorf("liquidity 1: expected %v, got %v", ScoreInvalid, got)
	}
}

func TestProcess_InvalidUTF8Text(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()
	in := sampleInput()
	in.strategy = "ETH \xff\xfe Arbitrage"
	rec := writeResearch(t, a, in)

	if _, err := b.Process(h, rec); err == nil {
		t.Fatal("expected error for malformed strategy text")
	}
	if got := b.ABI().Process(uint32(h), rec); got != ScoreInvalid {
		t.Errorf("expected %v, got %v", ScoreInvalid, got)
	}

	// The snapshot never sees the rejected record.
	c, ok := b.Context(h)
	if !ok {
		t.Fatal("context lookup failed")
	}
	if c.Research() != nil {
		t.Error("rejected record reached the snapshot")
	}
}

func TestGenerateContent_RoundTrip(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	const bufCap = 512
	out, err := a.Alloc(bufCap, 1)
	if err != nil {
		t.Fatalf("alloc out: %v", err)
	}

	n, err := b.GenerateContent(h, rec, ModeLinkedIn, out, bufCap)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	data, err := a.Read(out, n)
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	content := string(data)
	if uint32(len(content)) != n {
		t.Errorf("returned %d bytes but content is %d", n, len(content))
	}
	for _, want := range []string{"45", "1.247"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q: %q", want, content)
		}
	}

	term, err := a.ReadU8(out + n)
	if err != nil {
		t.Fatalf("read terminator: %v", err)
	}
	if term != 0 {
		t.Errorf("expected terminator at offset %d, got %d", n, term)
	}
}

func TestGenerateContent_CapacityBoundary(t *testing.T) {
	b, a := newTestBridge(t)
	abi := b.ABI()

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	const bufCap = 512
	out, err := a.Alloc(bufCap, 1)
	if err != nil {
		t.Fatalf("alloc out: %v", err)
	}
	n, err := b.GenerateContent(h, rec, ModeTwitter, out, bufCap)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	// Exact fit: content plus terminator.
	if _, err := b.GenerateContent(h, rec, ModeTwitter, out, n+1); err != nil {
		t.Fatalf("exact-fit call failed: %v", err)
	}

	// One byte short: distinct sentinel and an untouched buffer.
	pattern := bytes.Repeat([]byte{0xAA}, int(bufCap))
	if err := a.Write(out, pattern); err != nil {
		t.Fatalf("prefill: %v", err)
	}

	mode := writeText(t, a, "twitter")
	got := abi.GenerateContent(uint32(h), rec, mode, 7, out, n)
	if got != StatusTooSmall {
		t.Fatalf("expected %d, got %d", StatusTooSmall, got)
	}

	after, err := a.Read(out, bufCap)
	if err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	if !bytes.Equal(after, pattern) {
		t.Error("too-small call modified the output buffer")
	}
}

func TestGenerateContent_OverstatedCapacity(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	// The buffer sits 8 bytes before the end of memory but claims room for
	// 512: the call must fail cleanly with nothing written, not leave a
	// truncated render behind.
	out := a.Size() - 8
	pattern := bytes.Repeat([]byte{0xAA}, 8)
	if err := a.Write(out, pattern); err != nil {
		t.Fatalf("prefill: %v", err)
	}

	if _, err := b.GenerateContent(h, rec, ModeLinkedIn, out, 512); err == nil {
		t.Fatal("expected error for buffer past the end of memory")
	}

	after, err := a.Read(out, 8)
	if err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	if !bytes.Equal(after, pattern) {
		t.Error("failed call modified the output buffer")
	}
}

func TestGenerateContent_ModeFallback(t *testing.T) {
	b, a := newTestBridge(t)
	abi := b.ABI()

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())
	out, err := a.Alloc(512, 1)
	if err != nil {
		t.Fatalf("alloc out: %v", err)
	}

	mode := writeText(t, a, "myspace")
	n := abi.GenerateContent(uint32(h), rec, mode, 7, out, 512)
	if n < 0 {
		t.Fatalf("unexpected sentinel %d", n)
	}
	data, _ := a.Read(out, uint32(n))
	if !strings.HasPrefix(string(data), "Analysis:") {
		t.Errorf("expected default template, got %q", data)
	}

	if got := abi.GenerateContent(uint32(h), rec, 0, 0, out, 512); got != StatusNull {
		t.Errorf("null mode: expected %d, got %d", StatusNull, got)
	}
}

func TestBatchProcess_MatchesIndividual(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()

	const count = 4
	inputs := make([]researchInput, count)
	for i := range inputs {
		in := sampleInput()
		in.signals = int32(10 * (i + 1))
		in.opportunities = int32(i)
		in.liquidity = int64(1_000_000 * (i + 1))
		inputs[i] = in
	}

	// Contiguous record array plus a results array.
	stride := layout.Research.Size()
	recs, err := a.Alloc(stride*count, layout.Research.Align())
	if err != nil {
		t.Fatalf("alloc records: %v", err)
	}
	results, err := a.Alloc(8*count, 8)
	if err != nil {
		t.Fatalf("alloc results: %v", err)
	}

	individual := make([]float64, count)
	for i, in := range inputs {
		single := writeResearch(t, a, in)
		sc, err := b.Process(h, single)
		if err != nil {
			t.Fatalf("individual Process %d: %v", i, err)
		}
		individual[i] = sc

		// Copy the laid-out record into its batch slot.
		data, err := a.Read(single, stride)
		if err != nil {
			t.Fatalf("read record %d: %v", i, err)
		}
		if err := a.Write(recs+uint32(i)*stride, data); err != nil {
			t.Fatalf("write batch slot %d: %v", i, err)
		}
	}

	n, err := b.BatchProcess(h, recs, count, results)
	if err != nil {
		t.Fatalf("BatchProcess: %v", err)
	}
	if n != count {
		t.Fatalf("expected %d processed, got %d", count, n)
	}

	for i := 0; i < count; i++ {
		got, err := a.ReadF64(results + uint32(i)*8)
		if err != nil {
			t.Fatalf("read result %d: %v", i, err)
		}
		if got != individual[i] {
			t.Errorf("result %d: batch %v != individual %v", i, got, individual[i])
		}
	}
}

func TestBatchProcess_AtomicFailure(t *testing.T) {
	b, a := newTestBridge(t)
	abi := b.ABI()

	h := b.CreateContext()

	stride := layout.Research.Size()
	recs, err := a.Alloc(stride*2, layout.Research.Align())
	if err != nil {
		t.Fatalf("alloc records: %v", err)
	}
	results, err := a.Alloc(16, 8)
	if err != nil {
		t.Fatalf("alloc results: %v", err)
	}

	good := writeResearch(t, a, sampleInput())
	data, _ := a.Read(good, stride)
	if err := a.Write(recs, data); err != nil {
		t.Fatalf("write slot 0: %v", err)
	}
	bad := sampleInput()
	bad.liquidity = 0
	badRec := writeResearch(t, a, bad)
	data, _ = a.Read(badRec, stride)
	if err := a.Write(recs+stride, data); err != nil {
		t.Fatalf("write slot 1: %v", err)
	}

	// Poison the results array; a failed batch must not touch it.
	if err := a.WriteF64(results, -99); err != nil {
		t.Fatalf("poison results: %v", err)
	}
	if err := a.WriteF64(results+8, -99); err != nil {
		t.Fatalf("poison results: %v", err)
	}

	if got := abi.BatchProcess(uint32(h), recs, 2, results); got != StatusNull {
		t.Fatalf("expected %d, got %d", StatusNull, got)
	}
	for i := uint32(0); i < 2; i++ {
		v, _ := a.ReadF64(results + i*8)
		if v != -99 {
			t.Errorf("result slot %d written despite failed batch: %v", i, v)
		}
	}
}

func TestBatchProcess_Sentinels(t *testing.T) {
	b, a := newTestBridge(t)
	abi := b.ABI()

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())

	if got := abi.BatchProcess(uint32(h), 0, 1, rec); got != StatusNull {
		t.Errorf("null records: expected %d, got %d", StatusNull, got)
	}
	if got := abi.BatchProcess(uint32(h), rec, 1, 0); got != StatusNull {
		t.Errorf("null results: expected %d, got %d", StatusNull, got)
	}
	if got := abi.BatchProcess(0, rec, 1, rec); got != StatusNull {
		t.Errorf("null handle: expected %d, got %d", StatusNull, got)
	}
}

func TestPosts_CountAndCopy(t *testing.T) {
	b, a := newTestBridge(t)

	h := b.CreateContext()
	rec := writeResearch(t, a, sampleInput())
	out, err := a.Alloc(512, 1)
	if err != nil {
		t.Fatalf("alloc out: %v", err)
	}

	if n, err := b.PostCount(h); err != nil || n != 0 {
		t.Fatalf("expected 0 posts, got %d (%v)", n, err)
	}

	if _, err := b.GenerateContent(h, rec, ModeTwitter, out, 512); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if _, err := b.GenerateContent(h, rec, ModeLinkedIn, out, 512); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	n, err := b.PostCount(h)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 posts, got %d (%v)", n, err)
	}

	// Copy the first post out and read it back through the layout.
	postPtr, err := a.Alloc(layout.Post.Size(), layout.Post.Align())
	if err != nil {
		t.Fatalf("alloc post: %v", err)
	}
	if err := b.CopyPost(h, 0, postPtr); err != nil {
		t.Fatalf("CopyPost: %v", err)
	}

	readPairStr := func(off uint32) string {
		p, err := a.ReadU32(off + layout.PairPtrOff)
		if err != nil {
			t.Fatalf("read pair ptr: %v", err)
		}
		l, err := a.ReadU32(off + layout.PairLenOff)
		if err != nil {
			t.Fatalf("read pair len: %v", err)
		}
		if p == 0 {
			return ""
		}
		data, err := a.Read(p, l)
		if err != nil {
			t.Fatalf("read pair data: %v", err)
		}
		return string(data)
	}

	rc := layout.Post
	if got := readPairStr(postPtr + rc.Offset(layout.FieldPlatform)); got != "twitter" {
		t.Errorf("platform: expected twitter, got %q", got)
	}
	content := readPairStr(postPtr + rc.Offset(layout.FieldContent))
	if !strings.Contains(content, "45") {
		t.Errorf("content missing signals: %q", content)
	}

	tagsOff := postPtr + rc.Offset(layout.FieldHashtags)
	tagsPtr, _ := a.ReadU32(tagsOff + layout.PairPtrOff)
	tagCount, _ := a.ReadU32(tagsOff + layout.PairLenOff)
	if tagCount != 2 || tagsPtr == 0 {
		t.Fatalf("expected 2 hashtags, got ptr=%d count=%d", tagsPtr, tagCount)
	}
	if got := readPairStr(tagsPtr); got != "#signals" {
		t.Errorf("hashtag 0: expected #signals, got %q", got)
	}

	engagement, err := a.ReadF64(postPtr + rc.Offset(layout.FieldEngagement))
	if err != nil {
		t.Fatalf("read engagement: %v", err)
	}
	if engagement <= 0 {
		t.Errorf("expected positive engagement, got %v", engagement)
	}

	if err := b.CopyPost(h, 5, postPtr); err == nil {
		t.Error("expected error for out-of-range post index")
	}
}
