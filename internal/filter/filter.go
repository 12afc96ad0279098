// Package filter evaluates scan events against the signature store. Both
// entry points are pure: same event and config in, same match list out,
// no side effects, safe to call from any execution context.
package filter

import (
	"fmt"

	"aircanary.dev/internal/config"
	"aircanary.dev/internal/rules"
	"aircanary.dev/internal/signature"
	"aircanary.dev/internal/wire"
)

// Config is the runtime-adjustable part of filtering. It is copied by value
// into each evaluation, so mutations elsewhere never affect a call in
// progress.
type Config struct {
	MinRSSI       int8
	WifiEnabled   bool
	BleEnabled    bool
	BuzzerEnabled bool
}

func DefaultConfig() Config {
	return Config{
		MinRSSI:       config.DefaultMinRSSI,
		WifiEnabled:   true,
		BleEnabled:    true,
		BuzzerEnabled: true,
	}
}

// Reason records one signature hit: the category and a short human-readable
// detail, already truncated to the wire detail capacity.
type Reason struct {
	Category signature.Category
	Detail   string
}

// Result is a filter evaluation outcome. Reasons holds at most
// config.MaxMatches entries in evaluation order. Sigs records every
// signature index that hit before the reason cap was reached, for the rule
// engine.
type Result struct {
	Reasons []Reason
	Sigs    rules.SigSet
}

func (r Result) Matched() bool { return len(r.Reasons) > 0 }

func (r *Result) full() bool { return len(r.Reasons) >= config.MaxMatches }

func (r *Result) add(cat signature.Category, detail string, sigIdx int) {
	if r.full() {
		return
	}
	if len(detail) > config.MaxDetailLen {
		detail = detail[:config.MaxDetailLen]
	}
	r.Reasons = append(r.Reasons, Reason{Category: cat, Detail: detail})
	r.Sigs.Set(sigIdx)
}

// Engine binds the evaluation functions to one signature store.
type Engine struct {
	store *signature.Store
}

func New(store *signature.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Store() *signature.Store { return e.store }

// Wifi evaluates a WiFi scan event. The enabled flag and the RSSI threshold
// are hard gates checked before any signature; below-threshold events are
// never consulted against the store. Categories run in a fixed order: MAC
// prefix, SSID pattern, SSID exact, SSID keyword.
func (e *Engine) Wifi(ev wire.WifiEvent, cfg Config) Result {
	var res Result

	if !cfg.WifiEnabled || ev.RSSI < cfg.MinRSSI {
		return res
	}

	e.checkMacPrefix(ev.MAC, &res)

	if !ev.HasSSID {
		return res
	}

	for i, p := range e.store.SSIDPatterns {
		if res.full() {
			return res
		}
		if p.Matches(ev.SSID) {
			res.add(signature.CategorySSIDPattern, p.Description, e.store.Index(signature.CategorySSIDPattern, i))
		}
	}

	for i, exact := range e.store.SSIDExact {
		if res.full() {
			return res
		}
		if ev.SSID == exact {
			res.add(signature.CategorySSIDExact, exact, e.store.Index(signature.CategorySSIDExact, i))
		}
	}

	for i, kw := range e.store.SSIDKeywords {
		if res.full() {
			return res
		}
		if signature.ContainsFold(ev.SSID, kw) {
			res.add(signature.CategorySSIDKeyword, kw, e.store.Index(signature.CategorySSIDKeyword, i))
		}
	}

	return res
}

// Ble evaluates a BLE scan event. Category order: name, service UUID,
// standard UUID, manufacturer id.
func (e *Engine) Ble(ev wire.BleEvent, cfg Config) Result {
	var res Result

	if !cfg.BleEnabled || ev.RSSI < cfg.MinRSSI {
		return res
	}

	if ev.HasName && ev.Name != "" {
		for i, pattern := range e.store.BleNames {
			if res.full() {
				return res
			}
			if signature.ContainsFold(ev.Name, pattern) {
				res.add(signature.CategoryBleName, pattern, e.store.Index(signature.CategoryBleName, i))
			}
		}
	}

	for _, uuid := range ev.ServiceUUIDs {
		for i, known := range e.store.BleServiceUUIDs {
			if res.full() {
				return res
			}
			if uuid == known {
				res.add(signature.CategoryBleServiceUUID,
					fmt.Sprintf("uuid 0x%04X", uuid),
					e.store.Index(signature.CategoryBleServiceUUID, i))
			}
		}
	}

	for _, uuid := range ev.ServiceUUIDs {
		for i, known := range e.store.BleStandardUUIDs {
			if res.full() {
				return res
			}
			if uuid == known {
				res.add(signature.CategoryBleStandardUUID,
					fmt.Sprintf("std uuid 0x%04X", uuid),
					e.store.Index(signature.CategoryBleStandardUUID, i))
			}
		}
	}

	if ev.HasManufacturer {
		for i, id := range e.store.BleManufacturerIDs {
			if res.full() {
				return res
			}
			if ev.ManufacturerID == id {
				res.add(signature.CategoryBleManufacturer,
					fmt.Sprintf("mfr 0x%04X", id),
					e.store.Index(signature.CategoryBleManufacturer, i))
			}
		}
	}

	return res
}

// checkMacPrefix reports the first matching OUI only. A MAC has exactly one
// vendor prefix, so further scanning cannot add information.
func (e *Engine) checkMacPrefix(mac [6]byte, res *Result) {
	oui := [3]byte{mac[0], mac[1], mac[2]}
	for i, p := range e.store.MacPrefixes {
		if p.OUI == oui {
			res.add(signature.CategoryMacPrefix, p.Vendor, e.store.Index(signature.CategoryMacPrefix, i))
			return
		}
	}
}
