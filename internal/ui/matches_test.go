package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aircanary.dev/internal/filter"
	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/signature"
)

func TestLookupVendor(t *testing.T) {
	assert.Equal(t, "Apple", LookupVendor(0x004C))
	assert.Equal(t, "Xuntong", LookupVendor(0x09C8))
	assert.Equal(t, "", LookupVendor(0xFFFF))
}

func TestMatchRowNamelessDeviceShowsVendor(t *testing.T) {
	m := pipeline.Match{
		Radio:  "ble",
		MAC:    "01:02:03:04:05:06",
		RSSI:   -55,
		Mfr:    0x09C8,
		HasMfr: true,
		Time:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	row := renderMatchRow(m, 120)
	assert.Contains(t, row, "Xuntong")

	m.HasMfr = false
	assert.Contains(t, renderMatchRow(m, 120), "(hidden)")
}

func TestMatchDetailIncludesVendor(t *testing.T) {
	m := pipeline.Match{
		Radio:  "ble",
		Mfr:    0x004C,
		HasMfr: true,
		Reasons: []filter.Reason{
			{Category: signature.CategoryBleManufacturer, Detail: "mfr 0x004C"},
		},
	}
	detail := RenderMatchDetail(m, 120)
	assert.Contains(t, detail, "ble_mfr(mfr 0x004C)")
	assert.Contains(t, detail, "vendor Apple")

	// Unknown IDs fall back to hex.
	m.Mfr = 0x1234
	assert.Contains(t, RenderMatchDetail(m, 120), "vendor 0x1234")
}
