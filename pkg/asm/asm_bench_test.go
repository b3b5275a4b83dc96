package asm

import "testing"

// smallProgram counts V0 down from 10 and draws the final digit.
const smallProgram = `
    LD V0, 10
    LD V1, 1
loop:
    SUB V0, V1
    SE V0, 0
    JP loop
    LD F, V0
    DRW V2, V3, 5
halt:
    JP halt
`

// largeProgram draws a score with BCD, bounces a sprite and polls the keypad.
const largeProgram = `
    JP main

; ---- draw the three BCD digits of V0 at (V4, V5) ----
draw_score:
    LD I, scratch
    LD B, V0
    LD V2, [I]
    LD F, V0
    DRW V4, V5, 5
    ADD V4, 5
    LD F, V1
    DRW V4, V5, 5
    ADD V4, 5
    LD F, V2
    DRW V4, V5, 5
    RET

; ---- move the ball one step, bouncing off the edges ----
move_ball:
    LD I, ball
    DRW V6, V7, 1
    ADD V6, V8
    ADD V7, V9
    SNE V6, 0
    LD V8, 1
    SNE V6, 63
    LD V8, $FF
    SNE V7, 0
    LD V9, 1
    SNE V7, 31
    LD V9, $FF
    DRW V6, V7, 1
    RET

; ---- wait for the delay timer ----
wait_frame:
    LD VA, DT
    SE VA, 0
    JP wait_frame
    LD VA, 2
    LD DT, VA
    RET

main:
    CLS
    LD V0, 0
    LD V6, 10
    LD V7, 10
    LD V8, 1
    LD V9, 1
main_loop:
    CALL move_ball
    SE VF, 0
    ADD V0, 1
    LD V4, 0
    LD V5, 0
    CALL draw_score
    CALL wait_frame
    LD VB, 5
    SKNP VB
    CLS
    RND VC, $0F
    SHR VC
    SHL VC, VC
    XOR VC, VC
    OR VC, V0
    AND VC, V1
    SUBN VC, V1
    ADD I, VC
    JP main_loop

ball:
    .BYTE $80
scratch:
    .BYTE 0, 0, 0
    .WORD $FFFF
`

func BenchmarkAssemble_Small(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, err := Assemble(smallProgram)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Large(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, err := Assemble(largeProgram)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDisassemble_Large(b *testing.B) {
	rom, _, err := Assemble(largeProgram)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Disassemble(rom, 0x200)
	}
}
