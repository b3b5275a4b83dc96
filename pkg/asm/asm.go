// Package asm assembles CHIP-8 source written in the common Cowgod mnemonics
// into a ROM image loadable at the program start address.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gochip8/pkg/cpu"
	"gochip8/pkg/peripherals"
)

// Operand limits.
const (
	maxAddr   = 0xFFF
	maxByte   = 0xFF
	maxNibble = 0xF
	maxWord   = 0xFFFF
)

// aluOps take two registers.
var aluOps = map[string]cpu.Op{
	"OR":   cpu.OpOr,
	"AND":  cpu.OpAnd,
	"XOR":  cpu.OpXor,
	"SUB":  cpu.OpSub,
	"SUBN": cpu.OpSubN,
}

// shiftOps take one register and an optional ignored second one.
var shiftOps = map[string]cpu.Op{
	"SHR": cpu.OpShr,
	"SHL": cpu.OpShl,
}

// specialOperands name registers that are not V registers.
var specialOperands = map[string]bool{
	"I":   true,
	"[I]": true,
	"DT":  true,
	"ST":  true,
	"K":   true,
	"F":   true,
	"B":   true,
}

var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "LD": true, "ADD": true,
	"OR": true, "AND": true, "XOR": true, "SUB": true,
	"SUBN": true, "SHR": true, "SHL": true, "RND": true,
	"DRW": true, "SKP": true, "SKNP": true,
}

type Assembler struct {
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble returns the ROM image, which starts at peripherals.ProgramStart,
// and a map from absolute address to 1-based source line.
func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")
	parsed := make([]parsedLine, 0, len(lines))
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, p)
	}

	if err := a.pass1(parsed); err != nil {
		return nil, nil, err
	}
	return a.pass2(parsed)
}

// Labels returns the resolved label addresses keyed by upper-case name.
func (a *Assembler) Labels() map[string]uint16 {
	out := make(map[string]uint16, len(a.labels))
	for k, v := range a.labels {
		out[k] = v
	}
	return out
}

func (a *Assembler) pass1(lines []parsedLine) error {
	address := uint32(peripherals.ProgramStart)

	for _, p := range lines {
		for _, lbl := range p.labels {
			if address > maxAddr {
				return fmt.Errorf("label '%s' on line %d points past addressable memory", lbl, p.lineNo)
			}
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, p.lineNo)
			}
			a.labels[key] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}

		if p.mnemonic == ".ORG" {
			target, err := parseOrigin(p.operands[0], address, p.lineNo)
			if err != nil {
				return err
			}
			address = target
			continue
		}

		length, ok := instructionLength(p.mnemonic, len(p.operands))
		if !ok {
			return fmt.Errorf("unknown instruction on line %d: %s", p.lineNo, p.mnemonic)
		}
		if address+length > peripherals.MemorySize {
			return fmt.Errorf("program too large near line %d", p.lineNo)
		}
		address += length
	}

	return nil
}

func (a *Assembler) pass2(lines []parsedLine) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for _, p := range lines {
		if p.mnemonic == "" {
			continue
		}
		lineNo := p.lineNo
		ops := p.operands
		address := uint32(peripherals.ProgramStart + len(program))

		switch p.mnemonic {
		case ".ORG":
			target, err := parseOrigin(ops[0], address, lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, make([]byte, target-address)...)
			continue

		case ".BYTE":
			sourceMap[uint16(address)] = lineNo
			for _, op := range ops {
				val, err := a.parseValue(op, maxByte, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val))
			}
			continue

		case ".WORD":
			sourceMap[uint16(address)] = lineNo
			for _, op := range ops {
				val, err := a.parseValue(op, maxWord, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val>>8), byte(val))
			}
			continue
		}

		ins, err := a.encodeLine(p)
		if err != nil {
			return nil, nil, err
		}
		sourceMap[uint16(address)] = lineNo
		word := cpu.Encode(ins)
		program = append(program, byte(word>>8), byte(word))
	}

	return program, sourceMap, nil
}

func (a *Assembler) encodeLine(p parsedLine) (cpu.Instruction, error) {
	mnemonic := p.mnemonic
	ops := p.operands
	lineNo := p.lineNo

	expect := func(n int) error {
		if len(ops) != n {
			return fmt.Errorf("%s expects %d operands on line %d", mnemonic, n, lineNo)
		}
		return nil
	}

	switch mnemonic {
	case "CLS", "RET":
		if err := expect(0); err != nil {
			return cpu.Instruction{}, err
		}
		if mnemonic == "CLS" {
			return cpu.Instruction{Op: cpu.OpCls}, nil
		}
		return cpu.Instruction{Op: cpu.OpRet}, nil

	case "JP":
		if len(ops) == 2 {
			if r, err := parseRegister(ops[0], lineNo); err != nil || r != 0 {
				return cpu.Instruction{}, fmt.Errorf("JP with two operands needs V0 on line %d", lineNo)
			}
			addr, err := a.parseValue(ops[1], maxAddr, lineNo)
			return cpu.Instruction{Op: cpu.OpJumpV0, Addr: addr}, err
		}
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		addr, err := a.parseValue(ops[0], maxAddr, lineNo)
		return cpu.Instruction{Op: cpu.OpJump, Addr: addr}, err

	case "CALL":
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		addr, err := a.parseValue(ops[0], maxAddr, lineNo)
		return cpu.Instruction{Op: cpu.OpCall, Addr: addr}, err

	case "SE", "SNE":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		if isRegister(ops[1]) {
			y, err := parseRegister(ops[1], lineNo)
			op := cpu.OpSkipEq
			if mnemonic == "SNE" {
				op = cpu.OpSkipNeq
			}
			return cpu.Instruction{Op: op, X: x, Y: y}, err
		}
		kk, err := a.parseValue(ops[1], maxByte, lineNo)
		op := cpu.OpSkipEqImm
		if mnemonic == "SNE" {
			op = cpu.OpSkipNeqImm
		}
		return cpu.Instruction{Op: op, X: x, KK: uint8(kk)}, err

	case "LD":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.encodeLoad(ops[0], ops[1], lineNo)

	case "ADD":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		if ops[0] == "I" {
			x, err := parseRegister(ops[1], lineNo)
			return cpu.Instruction{Op: cpu.OpAddAddr, X: x}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		if isRegister(ops[1]) {
			y, err := parseRegister(ops[1], lineNo)
			return cpu.Instruction{Op: cpu.OpAdd, X: x, Y: y}, err
		}
		kk, err := a.parseValue(ops[1], maxByte, lineNo)
		return cpu.Instruction{Op: cpu.OpAddImm, X: x, KK: uint8(kk)}, err

	case "RND":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		kk, err := a.parseValue(ops[1], maxByte, lineNo)
		return cpu.Instruction{Op: cpu.OpRandAnd, X: x, KK: uint8(kk)}, err

	case "DRW":
		if err := expect(3); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		y, err := parseRegister(ops[1], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		n, err := a.parseValue(ops[2], maxNibble, lineNo)
		return cpu.Instruction{Op: cpu.OpDraw, X: x, Y: y, N: uint8(n)}, err

	case "SKP", "SKNP":
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		op := cpu.OpSkipKeyPressed
		if mnemonic == "SKNP" {
			op = cpu.OpSkipKeyNotPressed
		}
		return cpu.Instruction{Op: op, X: x}, err
	}

	if op, ok := aluOps[mnemonic]; ok {
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		y, err := parseRegister(ops[1], lineNo)
		return cpu.Instruction{Op: op, X: x, Y: y}, err
	}

	if op, ok := shiftOps[mnemonic]; ok {
		if len(ops) != 1 && len(ops) != 2 {
			return cpu.Instruction{}, fmt.Errorf("%s expects 1 or 2 operands on line %d", mnemonic, lineNo)
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		var y uint8
		if len(ops) == 2 {
			if y, err = parseRegister(ops[1], lineNo); err != nil {
				return cpu.Instruction{}, err
			}
		}
		return cpu.Instruction{Op: op, X: x, Y: y}, nil
	}

	return cpu.Instruction{}, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
}

// encodeLoad resolves the many LD forms by their operand kinds.
func (a *Assembler) encodeLoad(dst, src string, lineNo int) (cpu.Instruction, error) {
	switch dst {
	case "I":
		addr, err := a.parseValue(src, maxAddr, lineNo)
		return cpu.Instruction{Op: cpu.OpLoadAddr, Addr: addr}, err
	case "DT", "ST", "F", "B", "[I]":
		x, err := parseRegister(src, lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		ops := map[string]cpu.Op{
			"DT":  cpu.OpSetDelay,
			"ST":  cpu.OpSetSound,
			"F":   cpu.OpSpriteLoc,
			"B":   cpu.OpStoreBCD,
			"[I]": cpu.OpStoreRegs,
		}
		return cpu.Instruction{Op: ops[dst], X: x}, nil
	}

	x, err := parseRegister(dst, lineNo)
	if err != nil {
		return cpu.Instruction{}, err
	}
	switch {
	case src == "DT":
		return cpu.Instruction{Op: cpu.OpLoadDelay, X: x}, nil
	case src == "K":
		return cpu.Instruction{Op: cpu.OpWaitForKey, X: x}, nil
	case src == "[I]":
		return cpu.Instruction{Op: cpu.OpLoadRegs, X: x}, nil
	case isRegister(src):
		y, err := parseRegister(src, lineNo)
		return cpu.Instruction{Op: cpu.OpMove, X: x, Y: y}, err
	}
	kk, err := a.parseValue(src, maxByte, lineNo)
	return cpu.Instruction{Op: cpu.OpLoadImm, X: x, KK: uint8(kk)}, err
}

func parseOrigin(token string, address uint32, lineNo int) (uint32, error) {
	target, err := parseNumber(token)
	if err != nil {
		return 0, fmt.Errorf("invalid .ORG value on line %d: %s", lineNo, token)
	}
	if target > peripherals.MemorySize {
		return 0, fmt.Errorf(".ORG out of range on line %d: %s", lineNo, token)
	}
	if uint32(target) < address {
		return 0, fmt.Errorf("cannot move origin backward on line %d", lineNo)
	}
	return uint32(target), nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(normalizeInstructionText(line))
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = strings.ToUpper(fields[0])
	for _, f := range fields[1:] {
		p.operands = append(p.operands, normalizeOperand(f))
	}

	switch p.mnemonic {
	case ".ORG":
		if len(p.operands) != 1 {
			return p, fmt.Errorf(".ORG expects exactly one operand on line %d", lineNo)
		}
	case ".BYTE", ".WORD":
		if len(p.operands) == 0 {
			return p, fmt.Errorf("%s expects at least one operand on line %d", p.mnemonic, lineNo)
		}
	}

	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

// normalizeInstructionText turns separators into spaces and glues "[ I ]"
// back into a single token.
func normalizeInstructionText(line string) string {
	replacer := strings.NewReplacer(",", " ", "[ ", "[", " ]", "]")
	return replacer.Replace(line)
}

// normalizeOperand upper-cases register and keyword operands; labels keep
// their spelling for error messages.
func normalizeOperand(token string) string {
	upper := strings.ToUpper(token)
	if specialOperands[upper] || isRegister(upper) {
		return upper
	}
	return token
}

func isRegister(token string) bool {
	if len(token) != 2 || (token[0] != 'V' && token[0] != 'v') {
		return false
	}
	_, err := strconv.ParseUint(token[1:], 16, 4)
	return err == nil
}

func parseRegister(token string, lineNo int) (uint8, error) {
	if !isRegister(token) {
		return 0, fmt.Errorf("invalid register '%s' on line %d", token, lineNo)
	}
	v, _ := strconv.ParseUint(token[1:], 16, 4)
	return uint8(v), nil
}

// parseNumber accepts decimal, 0x/$ hexadecimal, 0b binary and 0o octal.
func parseNumber(token string) (uint64, error) {
	if strings.HasPrefix(token, "$") {
		return strconv.ParseUint(token[1:], 16, 32)
	}
	return strconv.ParseUint(token, 0, 32)
}

func (a *Assembler) parseValue(token string, limit uint64, lineNo int) (uint16, error) {
	if value, err := parseNumber(token); err == nil {
		if value > limit {
			return 0, fmt.Errorf("immediate out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	label := normalizeLabel(token)
	if addr, ok := a.labels[label]; ok {
		if uint64(addr) > limit {
			return 0, fmt.Errorf("label '%s' out of range on line %d", token, lineNo)
		}
		return addr, nil
	}

	if isIdentifier(token) {
		return 0, fmt.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return 0, fmt.Errorf("invalid immediate '%s' on line %d", token, lineNo)
}

// instructionLength returns the byte length of a line. Every instruction is
// one 16-bit word; data directives depend on their operand count.
func instructionLength(mnemonic string, operands int) (uint32, bool) {
	mnemonic = strings.ToUpper(mnemonic)

	switch mnemonic {
	case ".BYTE":
		return uint32(operands), true
	case ".WORD":
		return uint32(operands) * 2, true
	}
	if mnemonics[mnemonic] {
		return 2, true
	}
	return 0, false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
