package ui

// LookupVendor returns a human-readable name for a Bluetooth SIG company ID.
// See: https://www.bluetooth.com/specifications/assigned-numbers/
func LookupVendor(companyID uint16) string {
	if name, ok := vendorNames[companyID]; ok {
		return name
	}
	return ""
}

var vendorNames = map[uint16]string{
	0x004C: "Apple",
	0x0006: "Microsoft",
	0x00E0: "Google",
	0x0075: "Samsung",
	0x0310: "Xiaomi",
	0x0157: "Huawei",
	0x038F: "Garmin",
	0x0087: "Bose",
	0x012D: "Sony",
	0x0171: "Amazon",
	0x02FF: "Tile",
	0x0059: "Nordic",
	0x000D: "Texas Inst.",
	0x0822: "Tuya/Govee",
	0x0131: "JBL",
	0x0002: "Intel",
	0x000A: "Qualcomm",
	0x015D: "Espressif",
	0x048F: "Wyze",
	0x09A7: "Ring",
	0x03DA: "Fitbit",
	0x09C8: "Xuntong",
}
