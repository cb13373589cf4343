package asm

import (
	"strconv"

	"github.com/raybritton/tape-device"
)

// parseParameter converts one whitespace-trimmed token into a typed
// Parameter matching the requested (possibly composite) kind, per
// spec.md §4.1. It is the Go rendition of the teacher's addressing-mode
// guesser (asm.go's parseOperand), generalized from "guess a 6502 mode"
// to "parse against a declared ParameterKind".
func parseParameter(tok fstring, kind tapedevice.ParameterKind) (tapedevice.Parameter, error) {
	switch kind {
	case tapedevice.KindNumber:
		return parseNumber(tok)
	case tapedevice.KindAddress:
		return parseAddrLiteral(tok)
	case tapedevice.KindDataReg:
		return parseDataReg(tok)
	case tapedevice.KindAddrReg:
		return parseAddrReg(tok)
	case tapedevice.KindRegisters:
		if p, err := parseDataReg(tok); err == nil {
			return p, nil
		}
		return parseAddrReg(tok)
	case tapedevice.KindAddresses:
		if p, err := parseAddrLiteral(tok); err == nil {
			return p, nil
		}
		return tapedevice.NewLabel(tok.String()), nil
	case tapedevice.KindLabel:
		return tapedevice.NewLabel(tok.String()), nil
	case tapedevice.KindStringKey:
		return tapedevice.NewStrKey(tok.String()), nil
	case tapedevice.KindDataKey:
		return tapedevice.NewDataKey(tok.String()), nil
	default:
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: unsupported parameter kind %s", tok.String(), kind)
	}
}

// parseNumber implements the Number grammar: decimal 0..255, 'x' plus
// 1-2 hex digits, 'b' plus exactly 8 binary digits, or a three-byte
// ASCII character literal 'c'.
func parseNumber(tok fstring) (tapedevice.Parameter, error) {
	s := tok.String()
	switch {
	case len(s) == 0:
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "empty token: expected byte")

	case tok.looksLikeCharLiteral():
		if s[1] >= 0x80 {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: character literal must be ASCII", s)
		}
		return tapedevice.NewNumber(s[1]), nil

	case s[0] == 'x' || s[0] == 'X':
		digits := s[1:]
		if len(digits) < 1 || len(digits) > 2 {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: hex byte literal needs 1-2 digits", s)
		}
		for i := 0; i < len(digits); i++ {
			if !hexadecimal(digits[i]) {
				return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: invalid hex digit", s)
			}
		}
		return tapedevice.NewNumber(hexToByte(digits)), nil

	case s[0] == 'b' || s[0] == 'B':
		digits := s[1:]
		if len(digits) != 8 {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: binary byte literal needs exactly 8 digits", s)
		}
		var v int
		for i := 0; i < 8; i++ {
			if !binarynum(digits[i]) {
				return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: invalid binary digit", s)
			}
			v = v<<1 | int(digits[i]-'0')
		}
		return tapedevice.NewNumber(byte(v)), nil

	default:
		for i := 0; i < len(s); i++ {
			if !decimal(s[i]) {
				return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: expected byte", s)
			}
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: byte out of range 0-255", s)
		}
		return tapedevice.NewNumber(byte(v)), nil
	}
}

// parseAddrLiteral implements the Address grammar: '@' followed by
// decimal 0..65535 or 'x' plus 1-4 hex digits.
func parseAddrLiteral(tok fstring) (tapedevice.Parameter, error) {
	s := tok.String()
	if len(s) < 2 || s[0] != '@' {
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: expected address (must start with @)", s)
	}
	body := s[1:]
	if body[0] == 'x' || body[0] == 'X' {
		digits := body[1:]
		if len(digits) < 1 || len(digits) > 4 {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: hex address needs 1-4 digits", s)
		}
		var v uint32
		for i := 0; i < len(digits); i++ {
			if !hexadecimal(digits[i]) {
				return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: invalid hex digit", s)
			}
			v = v<<4 | uint32(hexchar(digits[i]))
		}
		return tapedevice.NewAddr(uint16(v)), nil
	}
	for i := 0; i < len(body); i++ {
		if !decimal(body[i]) {
			return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: expected address", s)
		}
	}
	v, err := strconv.Atoi(body)
	if err != nil || v < 0 || v > 65535 {
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: address out of range 0-65535", s)
	}
	return tapedevice.NewAddr(uint16(v)), nil
}

// parseDataReg matches a case-insensitive data register name.
func parseDataReg(tok fstring) (tapedevice.Parameter, error) {
	switch lower(tok.String()) {
	case "d0":
		return tapedevice.NewDataReg(tapedevice.RegD0), nil
	case "d1":
		return tapedevice.NewDataReg(tapedevice.RegD1), nil
	case "d2":
		return tapedevice.NewDataReg(tapedevice.RegD2), nil
	case "d3":
		return tapedevice.NewDataReg(tapedevice.RegD3), nil
	case "acc":
		return tapedevice.NewDataReg(tapedevice.RegACC), nil
	default:
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: expected data register (d0-d3, acc)", tok.String())
	}
}

// parseAddrReg matches a case-insensitive address register name.
func parseAddrReg(tok fstring) (tapedevice.Parameter, error) {
	switch lower(tok.String()) {
	case "a0":
		return tapedevice.NewAddrReg(tapedevice.RegA0), nil
	case "a1":
		return tapedevice.NewAddrReg(tapedevice.RegA1), nil
	default:
		return tapedevice.Parameter{}, fstringErr(Lexical, tok, "%q: expected address register (a0, a1)", tok.String())
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
