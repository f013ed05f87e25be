package storage

import (
	"errors"
	"testing"

	"aethelgard/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	input := sampleRun("run-1", "2026-08-29T10:00:00Z")
	input.Hazard = 0.125

	data, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output != input {
		t.Fatalf("round trip mismatch: %+v vs %+v", output, input)
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := sampleRun("run-1", "2026-08-29T10:00:00Z")
	run.SchemaVersion = CurrentSchemaVersion + 1

	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestHistoryCodecRoundTrip(t *testing.T) {
	input := []model.StepSummary{
		{Step: 1, Time: 0.01, G00Mean: -1, G00Std: 0, KMeanAbs: 1e-9, EntropyMean: 3.5},
	}

	data, err := EncodeHistory(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(output) != 1 || output[0] != input[0] {
		t.Fatalf("round trip mismatch: %+v", output)
	}
}

func TestDecodeRunRejectsGarbage(t *testing.T) {
	if _, err := DecodeRun([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
