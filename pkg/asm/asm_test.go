package asm

import (
	"reflect"
	"strings"
	"testing"
)

// encodeWords converts opcode words to big-endian bytes.
func encodeWords(words ...uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		out[i*2] = byte(w >> 8)
		out[i*2+1] = byte(w)
	}
	return out
}

func TestHelperFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"abc", true},
		{"_abc", true},
		{"abc1", true},
		{"1abc", false},
		{"", false},
		{"ab-c", false},
	}
	for _, tc := range tests {
		if got := isIdentifier(tc.input); got != tc.want {
			t.Errorf("isIdentifier(%q) = %v; want %v", tc.input, got, tc.want)
		}
	}

	if got := normalizeLabel("label"); got != "LABEL" {
		t.Errorf("normalizeLabel(\"label\") = %q; want \"LABEL\"", got)
	}

	regTests := []struct {
		input string
		want  bool
	}{
		{"V0", true},
		{"vf", true},
		{"VA", true},
		{"VG", false},
		{"V10", false},
		{"I", false},
	}
	for _, tc := range regTests {
		if got := isRegister(tc.input); got != tc.want {
			t.Errorf("isRegister(%q) = %v; want %v", tc.input, got, tc.want)
		}
	}

	lenTests := []struct {
		mnemonic string
		operands int
		wantLen  uint32
		wantOk   bool
	}{
		{"CLS", 0, 2, true},
		{"drw", 3, 2, true},
		{".BYTE", 3, 3, true},
		{".WORD", 2, 4, true},
		{"INVALID", 0, 0, false},
	}
	for _, tc := range lenTests {
		gotLen, gotOk := instructionLength(tc.mnemonic, tc.operands)
		if gotLen != tc.wantLen || gotOk != tc.wantOk {
			t.Errorf("instructionLength(%q) = %d, %v; want %d, %v", tc.mnemonic, gotLen, gotOk, tc.wantLen, tc.wantOk)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    parsedLine
		wantErr bool
	}{
		{
			"LD v0, 5",
			parsedLine{lineNo: 1, mnemonic: "LD", operands: []string{"V0", "5"}},
			false,
		},
		{
			"  add VA, vb  ; comment",
			parsedLine{lineNo: 1, mnemonic: "ADD", operands: []string{"VA", "VB"}},
			false,
		},
		{
			"START: CLS",
			parsedLine{lineNo: 1, labels: []string{"START"}, mnemonic: "CLS", operands: nil},
			false,
		},
		{
			"LABEL1: LABEL2: RET",
			parsedLine{lineNo: 1, labels: []string{"LABEL1", "LABEL2"}, mnemonic: "RET", operands: nil},
			false,
		},
		{
			"ld [ i ], v3",
			parsedLine{lineNo: 1, mnemonic: "LD", operands: []string{"[I]", "V3"}},
			false,
		},
		{
			"JP loop",
			parsedLine{lineNo: 1, mnemonic: "JP", operands: []string{"loop"}},
			false,
		},
		{
			".ORG 0x300",
			parsedLine{lineNo: 1, mnemonic: ".ORG", operands: []string{"0x300"}},
			false,
		},
		{
			".byte $F0, 0b10010000",
			parsedLine{lineNo: 1, mnemonic: ".BYTE", operands: []string{"$F0", "0b10010000"}},
			false,
		},
		// Invalid cases
		{
			"1LABEL: CLS",
			parsedLine{lineNo: 1},
			true,
		},
		{
			".ORG",
			parsedLine{lineNo: 1},
			true,
		},
		{
			".WORD",
			parsedLine{lineNo: 1},
			true,
		},
	}

	for _, tc := range tests {
		got, err := parseLine(tc.line, 1)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseLine(%q) error = %v, wantErr %v", tc.line, err, tc.wantErr)
			continue
		}
		if !tc.wantErr {
			if got.lineNo != tc.want.lineNo {
				t.Errorf("parseLine(%q) lineNo = %d, want %d", tc.line, got.lineNo, tc.want.lineNo)
			}
			if got.mnemonic != tc.want.mnemonic {
				t.Errorf("parseLine(%q) mnemonic = %q, want %q", tc.line, got.mnemonic, tc.want.mnemonic)
			}
			if !reflect.DeepEqual(got.labels, tc.want.labels) && !(len(got.labels) == 0 && len(tc.want.labels) == 0) {
				t.Errorf("parseLine(%q) labels = %v, want %v", tc.line, got.labels, tc.want.labels)
			}
			if !reflect.DeepEqual(got.operands, tc.want.operands) && !(len(got.operands) == 0 && len(tc.want.operands) == 0) {
				t.Errorf("parseLine(%q) operands = %v, want %v", tc.line, got.operands, tc.want.operands)
			}
		}
	}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    []byte
		wantErr bool
	}{
		{
			"Basic Instructions",
			`
			CLS
			LD V0, 10
			ADD V0, V1
			RET
			`,
			encodeWords(0x00E0, 0x600A, 0x8014, 0x00EE),
			false,
		},
		{
			"Labels and Jumps",
			// LD V0, 5   -> 0x200
			// LOOP:      -> 0x202
			// SUB V0, V1 -> 0x202
			// SE V0, 0   -> 0x204
			// JP LOOP    -> 0x206, target 0x202
			`
			LD V0, 5
			LOOP:
			SUB V0, V1
			SE V0, 0
			JP LOOP
			`,
			encodeWords(0x6005, 0x8015, 0x3000, 0x1202),
			false,
		},
		{
			"Forward reference",
			`
			CALL sub
			JP $200
			sub: RET
			`,
			encodeWords(0x2204, 0x1200, 0x00EE),
			false,
		},
		{
			"Every load form",
			`
			LD V1, V2
			LD V1, DT
			LD V1, K
			LD DT, V1
			LD ST, V1
			LD F, V1
			LD B, V1
			LD [I], V1
			LD V1, [I]
			LD I, $123
			LD V1, $FF
			`,
			encodeWords(0x8120, 0xF107, 0xF10A, 0xF115, 0xF118, 0xF129, 0xF133, 0xF155, 0xF165, 0xA123, 0x61FF),
			false,
		},
		{
			"Remaining instructions",
			`
			JP V0, 0x300
			SE V1, V2
			SNE V1, 7
			SNE V1, V2
			ADD V1, 1
			ADD I, V1
			OR V1, V2
			AND V1, V2
			XOR V1, V2
			SUBN V1, V2
			SHR V1
			SHL V1, V2
			RND V1, 0x0F
			DRW V1, V2, 5
			SKP V1
			SKNP V1
			`,
			encodeWords(0xB300, 0x5120, 0x4107, 0x9120, 0x7101, 0xF11E, 0x8121, 0x8122, 0x8123,
				0x8127, 0x8106, 0x812E, 0xC10F, 0xD125, 0xE19E, 0xE1A1),
			false,
		},
		{
			".ORG",
			`
			.ORG 0x204
			CLS
			`,
			append([]byte{0, 0, 0, 0}, encodeWords(0x00E0)...),
			false,
		},
		{
			".BYTE sprite",
			`
			LD I, sprite
			sprite: .BYTE 0xF0, $90, 0b11110000, 144
			`,
			append(encodeWords(0xA202), 0xF0, 0x90, 0xF0, 0x90),
			false,
		},
		{
			".WORD",
			`
			.WORD 0x1234, target
			target:
			`,
			[]byte{0x12, 0x34, 0x02, 0x04},
			false,
		},
		{
			"Comments",
			`
			; Comment
			LD V0, 1 // Comment
			`,
			encodeWords(0x6001),
			false,
		},
		{
			"Label only line",
			`
			START:
			LD V0, 1
			`,
			encodeWords(0x6001),
			false,
		},
		// Errors
		{
			"Unknown Instruction",
			`FOOBAR V0`,
			nil,
			true,
		},
		{
			"Duplicate Label",
			`
			L: CLS
			l: RET
			`,
			nil,
			true,
		},
		{
			"Invalid Register",
			`ADD V0, VG`,
			nil,
			true,
		},
		{
			"Invalid Operand Count",
			`OR V0`,
			nil,
			true,
		},
		{
			"Undefined Label",
			`JP NOWHERE`,
			nil,
			true,
		},
		{
			"Byte out of range",
			`LD V0, 256`,
			nil,
			true,
		},
		{
			"Nibble out of range",
			`DRW V0, V1, 16`,
			nil,
			true,
		},
		{
			"Address out of range",
			`JP 0x1000`,
			nil,
			true,
		},
		{
			"JP with non V0 base",
			`JP V1, 0x300`,
			nil,
			true,
		},
		{
			".ORG Backward",
			`
			CLS
			.ORG 0x200
			`,
			nil,
			true,
		},
		{
			"Program Too Large",
			`
			.ORG 0xFFF
			CLS
			`,
			nil,
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Assemble(tc.code)
			if (err != nil) != tc.wantErr {
				t.Errorf("Assemble() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Assemble() = % X, want % X", got, tc.want)
			}
		})
	}
}

func TestAssembleErrorMentionsLine(t *testing.T) {
	_, _, err := Assemble("CLS\nCLS\nLD V0, VZ\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not mention line 3", err)
	}
}

func TestAssemblerLabels(t *testing.T) {
	a := NewAssembler()
	if _, _, err := a.Assemble("start: CLS\nloop: JP loop\n"); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := map[string]uint16{"START": 0x200, "LOOP": 0x202}
	if got := a.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LD V0, 1", "LD V0, 1"},
		{"LD V0, 1 ; comment", "LD V0, 1 "},
		{"LD V0, 1 // comment", "LD V0, 1 "},
		{"// comment", ""},
		{"; comment", ""},
		{"LD V0, 1 ; first // second", "LD V0, 1 "},
	}
	for _, tc := range tests {
		if got := stripComments(tc.input); got != tc.want {
			t.Errorf("stripComments(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
