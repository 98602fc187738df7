package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindOutOfBounds,
				Path:   []string{"research", "strategy"},
				Detail: "text pointer past end of memory",
			},
			contains: []string{"[decode]", "out_of_bounds", "research.strategy", "text pointer past end of memory"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseValidate,
				Kind:  KindNilPointer,
			},
			contains: []string{"[validate]", "nil_pointer"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("error message %q missing %q", msg, want)
				}
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := InvalidHandle(PhaseValidate, 7)

	if !errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindInvalidHandle}) {
		t.Error("expected Is to match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseRuntime, Kind: KindInvalidHandle}) {
		t.Error("expected Is to reject different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(PhaseRuntime, KindClosed, cause, "teardown")

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseGenerate, KindBufferTooSmall).
		Path("post", "content").
		Value(uint32(300)).
		Detail("need %d bytes", 300).
		Build()

	if err.Phase != PhaseGenerate || err.Kind != KindBufferTooSmall {
		t.Fatalf("builder lost phase/kind: %+v", err)
	}
	if err.Detail != "need 300 bytes" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if len(err.Path) != 2 || err.Path[0] != "post" {
		t.Errorf("unexpected path: %v", err.Path)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := BufferTooSmall(PhaseGenerate, 129, 128); !strings.Contains(got.Error(), "129") {
		t.Errorf("BufferTooSmall missing need: %v", got)
	}
	if got := OutOfBounds(PhaseDecode, nil, 4096, 56); !strings.Contains(got.Error(), "4096") {
		t.Errorf("OutOfBounds missing offset: %v", got)
	}
	if got := InvalidUTF8(PhaseDecode, nil, []byte{0xff, 0xfe}); !strings.Contains(got.Error(), "fffe") {
		t.Errorf("InvalidUTF8 missing preview: %v", got)
	}
}
