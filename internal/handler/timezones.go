package handler

import (
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// zoneinfoDirs are the directories the catalog builder scans for IANA
// zone files, in the same order the time package itself searches.
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// fallbackZoneNames seeds the catalog on hosts that ship no zoneinfo
// directory at all, such as scratch containers.  The names still
// resolve there through the embedded tzdata, which otherwise would
// leave scheduling working but the catalog stuck at a bare UTC entry.
var fallbackZoneNames = []string{
	"Africa/Cairo",
	"Africa/Johannesburg",
	"Africa/Lagos",
	"Africa/Nairobi",
	"America/Bogota",
	"America/Chicago",
	"America/Lima",
	"America/Los_Angeles",
	"America/Mexico_City",
	"America/New_York",
	"America/Santiago",
	"America/Sao_Paulo",
	"Asia/Dubai",
	"Asia/Hong_Kong",
	"Asia/Jakarta",
	"Asia/Kolkata",
	"Asia/Shanghai",
	"Asia/Singapore",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/Berlin",
	"Europe/London",
	"Europe/Madrid",
	"Europe/Moscow",
	"Europe/Paris",
	"Pacific/Auckland",
}

var (
	tzOnce    sync.Once
	tzCatalog []string
)

// Timezones handles GET /v1/timezones.  It returns every zone the host
// knows about, each formatted as "UTC±HH:MM Zone/Name" and sorted by
// current offset then name.  The catalog is built once per process;
// when no zone database is available it degrades to a single UTC
// entry.
func Timezones(c echo.Context) error {
	tzOnce.Do(func() { tzCatalog = buildTimezoneCatalog(zoneinfoDirs) })
	return c.JSON(http.StatusOK, tzCatalog)
}

func buildTimezoneCatalog(dirs []string) []string {
	type zoneEntry struct {
		offsetMinutes int
		name          string
	}

	now := time.Now().UTC()
	var entries []zoneEntry
	for name := range collectZoneNames(dirs) {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		_, offsetSeconds := now.In(loc).Zone()
		entries = append(entries, zoneEntry{offsetMinutes: offsetSeconds / 60, name: name})
	}
	if len(entries) == 0 {
		return []string{"UTC+00:00 UTC"}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].offsetMinutes != entries[j].offsetMinutes {
			return entries[i].offsetMinutes < entries[j].offsetMinutes
		}
		return entries[i].name < entries[j].name
	})

	catalog := make([]string, 0, len(entries))
	for _, e := range entries {
		sign := "+"
		minutes := e.offsetMinutes
		if minutes < 0 {
			sign = "-"
			minutes = -minutes
		}
		catalog = append(catalog,
			fmt.Sprintf("UTC%s%02d:%02d %s", sign, minutes/60, minutes%60, e.name))
	}
	return catalog
}

// collectZoneNames walks the zoneinfo directories and gathers zone
// names such as "America/Lima".  Region directories start with an
// uppercase letter, which filters out metadata files (zone.tab,
// posixrules, leapseconds, ...) as well as the posix/ and right/
// variant trees.
func collectZoneNames(dirs []string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, dir := range dirs {
		root := dir
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil || rel == "." {
				return nil
			}
			first := rel[0]
			if first < 'A' || first > 'Z' {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				names[filepath.ToSlash(rel)] = struct{}{}
			}
			return nil
		})
		if len(names) > 0 {
			break
		}
	}
	if len(names) == 0 {
		for _, name := range fallbackZoneNames {
			names[name] = struct{}{}
		}
	}
	// Always include UTC itself; some hosts only ship region files.
	names["UTC"] = struct{}{}
	return names
}
