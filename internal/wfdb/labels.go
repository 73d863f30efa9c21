// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wfdb

import "strconv"

// Label codes used by the MIT annotation format. Codes 1..49 are
// annotation labels; 59..63 are pseudo-annotations that modify the
// annotation next to them.
const (
	CodeNotQRS = 0
	CodeNormal = 1
	CodePVC    = 5
	CodeAPC    = 8
	CodeNote   = 22
	CodeRhythm = 28

	codeSkip = 59
	codeNum  = 60
	codeSub  = 61
	codeChan = 62
	codeAux  = 63

	codeShift    = 10
	intervalMask = 1<<codeShift - 1
)

// symbols maps WFDB label codes to their standard mnemonics.
var symbols = [...]string{
	0:  " ",
	1:  "N",
	2:  "L",
	3:  "R",
	4:  "a",
	5:  "V",
	6:  "F",
	7:  "J",
	8:  "A",
	9:  "S",
	10: "E",
	11: "j",
	12: "/",
	13: "Q",
	14: "~",
	16: "|",
	18: "s",
	19: "T",
	20: "*",
	21: "D",
	22: `"`,
	23: "=",
	24: "p",
	25: "B",
	26: "^",
	27: "t",
	28: "+",
	29: "u",
	30: "?",
	31: "!",
	32: "[",
	33: "]",
	34: "e",
	35: "n",
	36: "@",
	37: "x",
	38: "f",
	39: "(",
	40: ")",
	41: "r",
}

// Symbol returns the mnemonic for a label code. Codes without a standard
// mnemonic (15, 17, 42..49) are rendered as "[code]".
func Symbol(code int) string {
	if code >= 0 && code < len(symbols) && symbols[code] != "" {
		return symbols[code]
	}
	return "[" + strconv.Itoa(code) + "]"
}
