// Package signature holds the compiled-in database of surveillance-device
// identifiers and the matching predicates over it. The store is built once
// at startup and shared read-only; matching is a linear scan per category,
// which is deterministic and fast at the low hundreds of entries involved.
package signature

import "strings"

// Category identifies which kind of signature produced a match. The String
// form is the tag emitted on the wire.
type Category uint8

const (
	CategoryMacPrefix Category = iota
	CategorySSIDPattern
	CategorySSIDExact
	CategorySSIDKeyword
	CategoryBleName
	CategoryBleServiceUUID
	CategoryBleStandardUUID
	CategoryBleManufacturer

	categoryCount
)

func (c Category) String() string {
	switch c {
	case CategoryMacPrefix:
		return "mac_oui"
	case CategorySSIDPattern:
		return "ssid_pattern"
	case CategorySSIDExact:
		return "ssid_exact"
	case CategorySSIDKeyword:
		return "ssid_keyword"
	case CategoryBleName:
		return "ble_name"
	case CategoryBleServiceUUID:
		return "ble_uuid"
	case CategoryBleStandardUUID:
		return "ble_uuid_std"
	case CategoryBleManufacturer:
		return "ble_mfr"
	}
	return "unknown"
}

// SuffixClass is the character class an SSIDPattern requires of every
// suffix character.
type SuffixClass uint8

const (
	SuffixHex SuffixClass = iota
	SuffixDigits
	SuffixAlnum
)

// MacPrefix matches the first three bytes of a device address.
type MacPrefix struct {
	OUI    [3]byte
	Vendor string
}

// SSIDPattern matches SSIDs of the shape <fixed prefix><N class chars>,
// e.g. "Flock-" followed by exactly six hex digits.
type SSIDPattern struct {
	Prefix      string
	SuffixLen   int
	Suffix      SuffixClass
	Description string
}

func (p SSIDPattern) Matches(ssid string) bool {
	rest, ok := strings.CutPrefix(ssid, p.Prefix)
	if !ok || len(rest) != p.SuffixLen {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if !p.Suffix.contains(rest[i]) {
			return false
		}
	}
	return true
}

func (c SuffixClass) contains(b byte) bool {
	digit := b >= '0' && b <= '9'
	alpha := (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	switch c {
	case SuffixHex:
		return digit || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	case SuffixDigits:
		return digit
	case SuffixAlnum:
		return digit || alpha
	}
	return false
}

// ContainsFold reports whether s contains substr under ASCII case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Store is the immutable signature table, grouped by category. Slices are
// populated at construction and never mutated afterward.
type Store struct {
	MacPrefixes        []MacPrefix
	SSIDPatterns       []SSIDPattern
	SSIDExact          []string
	SSIDKeywords       []string
	BleNames           []string
	BleServiceUUIDs    []uint16
	BleStandardUUIDs   []uint16
	BleManufacturerIDs []uint16
}

func (s *Store) categoryLen(c Category) int {
	switch c {
	case CategoryMacPrefix:
		return len(s.MacPrefixes)
	case CategorySSIDPattern:
		return len(s.SSIDPatterns)
	case CategorySSIDExact:
		return len(s.SSIDExact)
	case CategorySSIDKeyword:
		return len(s.SSIDKeywords)
	case CategoryBleName:
		return len(s.BleNames)
	case CategoryBleServiceUUID:
		return len(s.BleServiceUUIDs)
	case CategoryBleStandardUUID:
		return len(s.BleStandardUUIDs)
	case CategoryBleManufacturer:
		return len(s.BleManufacturerIDs)
	}
	return 0
}

// Index returns the store-wide index of entry pos within category c.
// Categories occupy contiguous index ranges in declaration order, so the
// index of a given entry is stable for the lifetime of the store. The rule
// engine keys its bitset on these indices.
func (s *Store) Index(c Category, pos int) int {
	base := 0
	for cat := CategoryMacPrefix; cat < c; cat++ {
		base += s.categoryLen(cat)
	}
	return base + pos
}

// Count is the total number of signatures across all categories.
func (s *Store) Count() int {
	return s.Index(categoryCount, 0)
}
