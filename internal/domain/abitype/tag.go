// Package abitype validates and converts free-text values against Solidity
// ABI type tags such as uint256, address, bytes32 or bool[].
package abitype

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the base category of a type tag
type Kind int

const (
	KindUnknown Kind = iota
	KindUint
	KindInt
	KindAddress
	KindBool
	KindString
	KindFixedBytes
	KindBytes
	KindArray
)

var (
	integerTagPattern = regexp.MustCompile(`^(u?int)([1-9][0-9]*)?$`)
	bytesTagPattern   = regexp.MustCompile(`^bytes([1-9][0-9]*)$`)
	arrayTagPattern   = regexp.MustCompile(`^(.+)\[([0-9]*)\]$`)
)

// Tag is a parsed type tag
type Tag struct {
	Raw  string
	Kind Kind
	// Size is the bit width for integers or the byte count for bytesN.
	// Zero when the tag carries no width (uint, int).
	Size int
	// Length is the fixed element count of T[k] arrays, -1 for dynamic T[]
	Length int
	Elem   *Tag
}

// ParseTag parses a type tag. Unrecognized tags yield KindUnknown rather than
// an error; callers treat them permissively.
func ParseTag(raw string) Tag {
	tag := Tag{Raw: raw, Length: -1}
	t := strings.TrimSpace(raw)

	if m := arrayTagPattern.FindStringSubmatch(t); m != nil {
		elem := ParseTag(m[1])
		tag.Kind = KindArray
		tag.Elem = &elem
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return Tag{Raw: raw, Kind: KindUnknown, Length: -1}
			}
			tag.Length = n
		}
		return tag
	}

	switch t {
	case "address":
		tag.Kind = KindAddress
		return tag
	case "bool":
		tag.Kind = KindBool
		return tag
	case "string":
		tag.Kind = KindString
		return tag
	case "bytes":
		tag.Kind = KindBytes
		return tag
	}

	if m := integerTagPattern.FindStringSubmatch(t); m != nil {
		tag.Kind = KindInt
		if m[1] == "uint" {
			tag.Kind = KindUint
		}
		if m[2] != "" {
			tag.Size, _ = strconv.Atoi(m[2])
		}
		return tag
	}

	if m := bytesTagPattern.FindStringSubmatch(t); m != nil {
		tag.Kind = KindFixedBytes
		tag.Size, _ = strconv.Atoi(m[1])
		return tag
	}

	tag.Kind = KindUnknown
	return tag
}

// String returns the tag as written
func (t Tag) String() string {
	return t.Raw
}
