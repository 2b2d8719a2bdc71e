// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package choropleth

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// englishRegions is built on first use and shared by every caller.
var englishRegions = sync.OnceValue(func() display.Namer {
	return display.English.Regions()
})

// displayLocales matches requested locales against the languages x/text can
// name regions in.
var displayLocales = sync.OnceValues(func() ([]language.Tag, language.Matcher) {
	tags := display.Supported.Tags()
	return tags, language.NewMatcher(tags)
})

// namers is keyed by supported display locale only, so it never holds more
// entries than display.Supported has tags.
var (
	namersMu sync.RWMutex
	namers   = map[language.Tag]display.Namer{}
)

// RegionName returns the English display name for an alpha-2 code, or the
// code itself when it is not a known region.
func RegionName(code string) string {
	return regionName(englishRegions(), code)
}

// LocalizedRegionName returns the region name in the given BCP 47 locale,
// falling back to English for unsupported locales.
func LocalizedRegionName(locale, code string) string {
	if locale == "" {
		return RegionName(code)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return RegionName(code)
	}
	return regionName(namerFor(tag), code)
}

func namerFor(requested language.Tag) display.Namer {
	tags, matcher := displayLocales()
	_, i, conf := matcher.Match(requested)
	if conf == language.No || i < 0 || i >= len(tags) {
		return englishRegions()
	}
	tag := tags[i]

	namersMu.RLock()
	n, ok := namers[tag]
	namersMu.RUnlock()
	if ok {
		return n
	}

	n = display.Regions(tag)
	if n == nil {
		n = englishRegions()
	}
	namersMu.Lock()
	namers[tag] = n
	namersMu.Unlock()
	return n
}

func cachedNamers() int {
	namersMu.RLock()
	defer namersMu.RUnlock()
	return len(namers)
}

func regionName(n display.Namer, code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := n.Name(region); name != "" {
		return name
	}
	return code
}
