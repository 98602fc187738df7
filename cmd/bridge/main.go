package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/membridge/arena"
	"github.com/wippyai/membridge/bridge"
	"github.com/wippyai/membridge/layout"
	"github.com/wippyai/membridge/shm"
)

func main() {
	var (
		signals       = flag.Int("signals", 45, "Detected signal count")
		opportunities = flag.Int("opportunities", 8, "Arbitrage opportunity count")
		strength      = flag.Float64("strength", 1.247, "Signal strength")
		priceMin      = flag.Float64("price-min", 3420, "Price range minimum")
		priceMax      = flag.Float64("price-max", 3580, "Price range maximum")
		liquidity     = flag.Int64("liquidity", 12_500_000, "Maximum liquidity")
		strategy      = flag.String("strategy", "ETH Statistical Arbitrage", "Strategy name")
		timeframe     = flag.String("timeframe", "24h", "Analysis timeframe")
		mode          = flag.String("mode", "default", "Content mode (default, linkedin, twitter)")
		shmName       = flag.String("shm", "", "Run over a named shared memory region instead of a private arena")
		interactive   = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	input := recordInput{
		Signals:       int32(*signals),
		Opportunities: int32(*opportunities),
		Strength:      *strength,
		PriceMin:      *priceMin,
		PriceMax:      *priceMax,
		Liquidity:     *liquidity,
		Strategy:      *strategy,
		Timeframe:     *timeframe,
	}
	if err := run(input, *mode, *shmName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// recordInput carries one research record's field values before they are
// laid out in shared memory.
type recordInput struct {
	Signals       int32
	Opportunities int32
	Strength      float64
	PriceMin      float64
	PriceMax      float64
	Liquidity     int64
	Strategy      string
	Timeframe     string
}

const memorySize = 1 << 20

// encodeRecord lays the record out in the arena and returns its offset.
func encodeRecord(mem *arena.Arena, in recordInput) (uint32, error) {
	recPtr, err := mem.Alloc(layout.Research.Size(), layout.Research.Align())
	if err != nil {
		return 0, fmt.Errorf("allocate record: %w", err)
	}

	writeText := func(field, text string) error {
		off := recPtr + layout.Research.Offset(field)
		if text == "" {
			if err := mem.WriteU32(off+layout.PairPtrOff, 0); err != nil {
				return err
			}
			return mem.WriteU32(off+layout.PairLenOff, 0)
		}
		ptr, err := mem.Alloc(uint32(len(text)), 1)
		if err != nil {
			return err
		}
		if err := mem.Write(ptr, []byte(text)); err != nil {
			return err
		}
		if err := mem.WriteU32(off+layout.PairPtrOff, ptr); err != nil {
			return err
		}
		return mem.WriteU32(off+layout.PairLenOff, uint32(len(text)))
	}

	steps := []error{
		mem.WriteU32(recPtr+layout.Research.Offset(layout.FieldSignals), uint32(in.Signals)),
		mem.WriteU32(recPtr+layout.Research.Offset(layout.FieldOpportunities), uint32(in.Opportunities)),
		mem.WriteF64(recPtr+layout.Research.Offset(layout.FieldStrength), in.Strength),
		mem.WriteF64(recPtr+layout.Research.Offset(layout.FieldPriceMin), in.PriceMin),
		mem.WriteF64(recPtr+layout.Research.Offset(layout.FieldPriceMax), in.PriceMax),
		mem.WriteU64(recPtr+layout.Research.Offset(layout.FieldLiquidity), uint64(in.Liquidity)),
		writeText(layout.FieldStrategy, in.Strategy),
		writeText(layout.FieldTimeframe, in.Timeframe),
	}
	for _, err := range steps {
		if err != nil {
			return 0, fmt.Errorf("encode record: %w", err)
		}
	}
	return recPtr, nil
}

func run(in recordInput, modeName, shmName string) error {
	var mem *arena.Arena
	if shmName != "" {
		region, err := shm.Create(shmName, memorySize)
		if err != nil {
			return err
		}
		defer region.Close()
		mem = region.Arena()
		fmt.Printf("Shared memory: /dev/shm/%s (%d bytes)\n", shmName, region.Size())
	} else {
		mem = arena.New(memorySize)
	}

	b := bridge.New(mem, mem)
	defer b.Close()

	recPtr, err := encodeRecord(mem, in)
	if err != nil {
		return err
	}

	h := b.CreateContext()
	defer b.DestroyContext(h)

	score, err := b.Process(h, recPtr)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	fmt.Printf("Strategy:  %s\n", in.Strategy)
	fmt.Printf("Score:     %.4f\n", score)

	const outCap = 4096
	outPtr, err := mem.Alloc(outCap, 1)
	if err != nil {
		return fmt.Errorf("allocate output buffer: %w", err)
	}
	n, err := b.GenerateContent(h, recPtr, bridge.ParseMode(modeName), outPtr, outCap)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	content, err := mem.Read(outPtr, n)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	fmt.Printf("Mode:      %s\n", bridge.ParseMode(modeName))
	fmt.Printf("Content:   %s\n", content)

	count, err := b.PostCount(h)
	if err != nil {
		return fmt.Errorf("post count: %w", err)
	}
	fmt.Printf("Posts:     %d\n", count)
	return nil
}
