/*
Package decompiler turns VTT assembly back into VTT Talk.

# Process of decompilation

	Font (TSI0/TSI1 tables)
	  -> font.Program ->
	Assembly Text (CR line ends replaced)
	  -> parse ->
	Instructions (asm)
	  -> match (+ glyph outline points from glyf) ->
	Talk Program (talk)
	  -> talk.Format ->
	Talk Text
*/
package decompiler
