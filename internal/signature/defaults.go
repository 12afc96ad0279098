package signature

import "aircanary.dev/internal/rules"

// Default returns the compiled-in signature database. The data covers the
// device families this sensor was built to spot: Flock Safety cameras and
// their battery packs, Penguin and Pigvision devices, Raven acoustic
// sensors, and the camera-vendor OUI ranges they ship on.
func Default() *Store {
	return &Store{
		MacPrefixes:        defaultMacPrefixes,
		SSIDPatterns:       defaultSSIDPatterns,
		SSIDExact:          []string{"FS Ext Battery"},
		SSIDKeywords:       []string{"flock", "penguin", "pigvision"},
		BleNames:           []string{"Flock", "Penguin", "FS Ext Battery", "Pigvision", "Flipper"},
		BleServiceUUIDs:    []uint16{0x3100, 0x3200, 0x3300, 0x3400, 0x3500},
		BleStandardUUIDs:   []uint16{0x180A, 0x1809, 0x1819},
		BleManufacturerIDs: []uint16{0x09C8},
	}
}

var defaultSSIDPatterns = []SSIDPattern{
	{Prefix: "Flock-", SuffixLen: 6, Suffix: SuffixHex, Description: "Flock Safety camera WiFi"},
	{Prefix: "Penguin-", SuffixLen: 10, Suffix: SuffixDigits, Description: "Penguin device WiFi"},
}

// DefaultRules builds the named-device rule database over a store's index
// space. Rules reference entries of the default store by position, so the
// store passed in must contain the Default() data in its default order.
func DefaultRules(s *Store) *rules.DB {
	var (
		flockOUI     = s.Index(CategoryMacPrefix, 0) // B4:1E:52
		silabs588E81 = s.Index(CategoryMacPrefix, 1) // 58:8E:81
		silabsCCCCCC = s.Index(CategoryMacPrefix, 2) // CC:CC:CC
		flockSSID    = s.Index(CategorySSIDPattern, 0)
		fsBattSSID   = s.Index(CategorySSIDExact, 0)
		flockKeyword = s.Index(CategorySSIDKeyword, 0)
		flockName    = s.Index(CategoryBleName, 0)
		fsBattName   = s.Index(CategoryBleName, 2)
		flipperName  = s.Index(CategoryBleName, 4)
		xuntongMfr   = s.Index(CategoryBleManufacturer, 0)
	)
	ravenUUIDs := make([]rules.Node, 0, 6)
	for i := 0; i < len(s.BleServiceUUIDs); i++ {
		ravenUUIDs = append(ravenUUIDs, rules.Sig(s.Index(CategoryBleServiceUUID, i)))
	}
	ravenUUIDs = append(ravenUUIDs, rules.AnyOf(len(s.BleServiceUUIDs)))

	nodes := []rules.Node{
		// Flock Safety Camera: anyOf(eight direct signatures,
		// allOf(xuntong manufacturer id, Flock BLE name)).
		rules.Sig(flockOUI),
		rules.Sig(silabs588E81),
		rules.Sig(silabsCCCCCC),
		rules.Sig(flockSSID),
		rules.Sig(fsBattSSID),
		rules.Sig(flockKeyword),
		rules.Sig(flockName),
		rules.Sig(fsBattName),
		rules.Sig(xuntongMfr),
		rules.Sig(flockName),
		rules.AllOf(2),
		rules.AnyOf(9),
	}
	flockLen := len(nodes)

	ravenStart := len(nodes)
	nodes = append(nodes, ravenUUIDs...)

	flipperStart := len(nodes)
	nodes = append(nodes, rules.Sig(flipperName))

	return &rules.DB{
		Nodes: nodes,
		Rules: []rules.Rule{
			{Name: "Flock Safety Camera", Start: 0, Len: flockLen},
			{Name: "Raven Acoustic Sensor", Start: ravenStart, Len: len(ravenUUIDs)},
			{Name: "Flipper Zero", Start: flipperStart, Len: 1},
		},
	}
}

// Vendor OUI ranges observed on surveillance hardware. One MAC matches at
// most one prefix, so scanning reports the first hit only.
var defaultMacPrefixes = []MacPrefix{
	{OUI: [3]byte{0xB4, 0x1E, 0x52}, Vendor: "Flock Safety"},

	{OUI: [3]byte{0x58, 0x8E, 0x81}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xCC, 0xCC, 0xCC}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xEC, 0x1B, 0xBD}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x90, 0x35, 0xEA}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x04, 0x0D, 0x84}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xF0, 0x82, 0xC0}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x1C, 0x34, 0xF1}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x38, 0x5B, 0x44}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x94, 0x34, 0x69}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xB4, 0xE3, 0xF9}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x70, 0xC9, 0x4E}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x3C, 0x91, 0x80}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xD8, 0xF3, 0xBC}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x80, 0x30, 0x49}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x14, 0x5A, 0xFC}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x74, 0x4C, 0xA1}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x08, 0x3A, 0x88}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x9C, 0x2F, 0x9D}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0x94, 0x08, 0x53}, Vendor: "Silicon Labs"},
	{OUI: [3]byte{0xE4, 0xAA, 0xEA}, Vendor: "Silicon Labs"},

	{OUI: [3]byte{0x70, 0x1A, 0xD5}, Vendor: "Avigilon Alta"},

	{OUI: [3]byte{0x00, 0x40, 0x8C}, Vendor: "Axis Communications"},
	{OUI: [3]byte{0xAC, 0xCC, 0x8E}, Vendor: "Axis Communications"},
	{OUI: [3]byte{0xB8, 0xA4, 0x4F}, Vendor: "Axis Communications"},
	{OUI: [3]byte{0xE8, 0x27, 0x25}, Vendor: "Axis Communications"},

	{OUI: [3]byte{0x1C, 0x79, 0x2D}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x3C, 0x3B, 0xAD}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x40, 0x9C, 0xA7}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x54, 0xAE, 0xBC}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x5C, 0x8A, 0xAE}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x6C, 0x05, 0xD3}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA4, 0x6B, 0x40}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA8, 0x4F, 0xA4}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA8, 0xA0, 0x92}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xB0, 0xAC, 0x82}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xBC, 0x2B, 0x02}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xC0, 0xE3, 0x50}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xC8, 0x26, 0xE2}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xC8, 0x8A, 0xD8}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x00, 0x7E, 0x56}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x04, 0x39, 0x26}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x24, 0xB7, 0x2A}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x3C, 0x7A, 0xAA}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x40, 0xAA, 0x56}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x44, 0xEF, 0xBF}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x78, 0x8A, 0x86}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0x94, 0xE0, 0xD6}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA0, 0x67, 0x20}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA0, 0x9D, 0xC1}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xA8, 0x43, 0xA4}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xD0, 0xA4, 0x6F}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xE0, 0x51, 0xD8}, Vendor: "China Dragon Technology"},
	{OUI: [3]byte{0xE0, 0x75, 0x26}, Vendor: "China Dragon Technology"},

	{OUI: [3]byte{0x00, 0x13, 0x56}, Vendor: "FLIR Radiation"},
	{OUI: [3]byte{0x00, 0x40, 0x7F}, Vendor: "FLIR Systems"},
	{OUI: [3]byte{0x00, 0x1B, 0xD8}, Vendor: "FLIR Systems"},

	{OUI: [3]byte{0x00, 0x13, 0xE2}, Vendor: "GeoVision"},

	{OUI: [3]byte{0x44, 0xB4, 0x23}, Vendor: "Hanwha Vision"},
	{OUI: [3]byte{0x8C, 0x1D, 0x55}, Vendor: "Hanwha Vision"},
	{OUI: [3]byte{0xE4, 0x30, 0x22}, Vendor: "Hanwha Vision"},

	{OUI: [3]byte{0x00, 0x10, 0xBE}, Vendor: "March Networks"},
	{OUI: [3]byte{0x00, 0x12, 0x81}, Vendor: "March Networks"},

	{OUI: [3]byte{0x48, 0x05, 0x60}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x50, 0x99, 0x03}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x78, 0xC4, 0xFA}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x80, 0xF3, 0xEF}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x84, 0x57, 0xF7}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x88, 0x25, 0x08}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0x94, 0xF9, 0x29}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0xB4, 0x17, 0xA8}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0xC0, 0xDD, 0x8A}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0xCC, 0xA1, 0x74}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0xD0, 0xB3, 0xC2}, Vendor: "Meta Platforms"},
	{OUI: [3]byte{0xD4, 0xD6, 0x59}, Vendor: "Meta Platforms"},

	{OUI: [3]byte{0x00, 0x03, 0xC5}, Vendor: "Mobotix"},

	{OUI: [3]byte{0x08, 0xEA, 0x40}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x0C, 0x8C, 0x24}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x0C, 0xCF, 0x89}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x10, 0xA4, 0xBE}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x14, 0x5D, 0x34}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x14, 0x6B, 0x9C}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x20, 0x32, 0x33}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x2C, 0xC3, 0xE6}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x30, 0x7B, 0xC9}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x34, 0x7D, 0xE4}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x38, 0x01, 0x46}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x38, 0x7A, 0xCC}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x44, 0x01, 0xBB}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x54, 0xEF, 0x33}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x60, 0xFB, 0x00}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x6C, 0xD5, 0x52}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x74, 0xEE, 0x2A}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x78, 0x22, 0x88}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x7C, 0xA7, 0xB0}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x84, 0xFC, 0x14}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x88, 0x49, 0x2D}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x94, 0xBA, 0x06}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x98, 0x03, 0xCF}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xA0, 0x9F, 0x10}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xA8, 0xB5, 0x8E}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xB4, 0x6D, 0xC2}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xC4, 0x3C, 0xB0}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xC8, 0xFE, 0x0F}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xCC, 0x64, 0x1A}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xE0, 0xB9, 0x4D}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xEC, 0x3D, 0xFD}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xF0, 0xC8, 0x14}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xFC, 0x23, 0xCD}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x20, 0xF4, 0x1B}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x28, 0xF3, 0x66}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x3C, 0x33, 0x00}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0x44, 0x33, 0x4C}, Vendor: "Shenzhen Bilian"},
	{OUI: [3]byte{0xAC, 0xA2, 0x13}, Vendor: "Shenzhen Bilian"},

	{OUI: [3]byte{0x00, 0x1C, 0x27}, Vendor: "Sunell Electronics"},
}
