package main

import "strings"

// forbidden is the rejected ASCII byte set (spec §4.4): 0x01..0x08, 0x0B,
// 0x0C, 0x0E..0x1F, 0x7F.
func forbidden(b byte) bool {
	switch {
	case b >= 0x01 && b <= 0x08:
		return true
	case b == 0x0B || b == 0x0C:
		return true
	case b >= 0x0E && b <= 0x1F:
		return true
	case b == 0x7F:
		return true
	default:
		return false
	}
}

// hasBadChars applies the forbidden-byte-set check with the three
// documented exceptions (spec §4.4, §8 "badchars rejection"):
//
//   - $Key ... bypasses the check entirely.
//   - $MyINFO $ALL ... tolerates exactly one forbidden byte (the speedclass
//     byte).
//   - $SR ... permits 0x05 as a field separator.
func hasBadChars(frame string) bool {
	if strings.HasPrefix(frame, "$Key ") || frame == "$Key" {
		return false
	}
	isMyINFO := strings.HasPrefix(frame, "$MyINFO $ALL ")
	isSR := strings.HasPrefix(frame, "$SR ")

	tolerated := 0
	for i := 0; i < len(frame); i++ {
		b := frame[i]
		if !forbidden(b) {
			continue
		}
		if isSR && b == 0x05 {
			continue
		}
		if isMyINFO && tolerated == 0 {
			tolerated++
			continue
		}
		return true
	}
	return false
}
