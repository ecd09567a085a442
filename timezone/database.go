package timezone

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/rfc9636"
)

// LevelTrace is below Debug; the loader reports every skipped file at
// this level.
const LevelTrace = slog.Level(-8)

func trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// DefaultDirs are the usual zoneinfo locations.
var DefaultDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// Resolver turns a zone id into a TimeZone.
type Resolver interface {
	Resolve(id string) (TimeZone, error)
}

type entry struct {
	id        string
	canonical string
	loc       *rfc9636.Location
}

// Database is a read-only set of named zones. A nil *Database resolves
// only UTC and offsets.
type Database struct {
	entries map[string]entry // by folded id
	aliases map[string][]string
	ids     []string
}

var _ Resolver = (*Database)(nil)

func foldID(id string) string { return cases.Fold().String(id) }

// LoadDatabase reads every zone below dirs. Directories that do not exist
// are skipped; when a zone appears in several, the first one wins. Files
// and directories whose names do not start with an upper case letter are
// not zones. Symbolic links become aliases of the zone they point to.
func LoadDatabase(fsys afero.Fs, dirs ...string) (*Database, error) {
	db := &Database{entries: map[string]entry{}, aliases: map[string][]string{}}
	for _, dir := range dirs {
		if err := db.walk(fsys, filepath.Clean(dir), ""); err != nil {
			return nil, err
		}
	}

	// Links whose target was not loaded stand on their own.
	for k, e := range db.entries {
		if _, ok := db.entries[foldID(e.canonical)]; !ok {
			e.canonical = e.id
			db.entries[k] = e
		}
	}
	numAliases := 0
	for _, e := range db.entries {
		if e.canonical == e.id {
			db.ids = append(db.ids, e.id)
			continue
		}
		target := db.entries[foldID(e.canonical)].id
		db.aliases[target] = append(db.aliases[target], e.id)
		numAliases++
	}
	slices.Sort(db.ids)
	for _, a := range db.aliases {
		slices.Sort(a)
	}
	if len(db.entries) == 0 {
		slog.Warn("no time zones found", "dirs", dirs)
	}
	slog.Info("Statistics", "zoneinfos", len(db.ids), "aliases", numAliases, "total", len(db.entries))
	return db, nil
}

func (db *Database) walk(fsys afero.Fs, root, rel string) error {
	path := filepath.Join(root, rel)
	infos, err := afero.ReadDir(fsys, path)
	if err != nil {
		trace("zoneinfo directory is not available", "path", path)
		return nil
	}

	for _, info := range infos {
		name := info.Name()
		if !capitalized(name) {
			trace("Skipping file because name is not capitalized", "filename", filepath.Join(path, name))
			continue
		}
		relName := filepath.Join(rel, name)
		if info.IsDir() {
			if err := db.walk(fsys, root, relName); err != nil {
				return err
			}
			continue
		}

		id := filepath.ToSlash(relName)
		if _, dup := db.entries[foldID(id)]; dup {
			trace("zone already loaded", "timezone", id, "source", root)
			continue
		}
		loc, err := rfc9636.LoadLocation(fsys, relName, []string{root})
		if err != nil {
			trace("File is not a timezone file", "file", filepath.Join(root, relName), "error", err)
			continue
		}
		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			var dump strings.Builder
			loc.Dump(&dump)
			slog.Debug("dump of zoneinfo", "timezone", id, "dump", dump.String())
		}

		canonical := id
		if info.Mode()&os.ModeSymlink != 0 {
			if target, ok := linkTarget(fsys, root, relName); ok {
				slog.Debug("Timezone has alias", "timezone", target, "alias", id)
				canonical = target
			}
		}
		db.entries[foldID(id)] = entry{id: id, canonical: canonical, loc: loc}
	}
	return nil
}

func capitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// linkTarget follows the link at root/rel and returns the zone id it ends
// on, if that lies inside root.
func linkTarget(fsys afero.Fs, root, rel string) (string, bool) {
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return "", false
	}
	lstater, _ := fsys.(afero.Lstater)
	path := filepath.Join(root, rel)
	for hops := 0; hops < 16; hops++ {
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			slog.Error("Could not read link target", "path", path, "error", err)
			return "", false
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
		if lstater == nil {
			break
		}
		fi, _, err := lstater.LstatIfPossible(path)
		if err != nil || fi.Mode()&os.ModeSymlink == 0 {
			break
		}
	}
	id, found := strings.CutPrefix(path, root+string(filepath.Separator))
	if !found {
		slog.Debug("link points outside the zoneinfo directory", "path", filepath.Join(root, rel), "target", path)
		return "", false
	}
	return filepath.ToSlash(id), true
}

// Resolve returns the zone for id: "UTC", an offset such as "+05:30", or a
// zone name in any letter case.
func (db *Database) Resolve(id string) (TimeZone, error) {
	const op = "timezone.Resolve"
	if isostring.IsOffset(id) {
		off, err := isostring.ParseOffset(id)
		if err != nil {
			return nil, failure.Rangef(op, "invalid offset time zone %q", id)
		}
		if off%60e9 != 0 {
			return nil, failure.Rangef(op, "offset time zone %q has seconds", id)
		}
		return NewFixed(off)
	}
	folded := foldID(id)
	if folded == "utc" {
		return UTC, nil
	}
	if db != nil {
		if e, ok := db.entries[folded]; ok {
			return &Zone{id: e.id, canonical: e.canonical, loc: e.loc, tab: locationTable{e.loc}}, nil
		}
	}
	return nil, failure.Rangef(op, "unknown time zone %q", id)
}

// IDs returns the zone names that are not aliases, sorted.
func (db *Database) IDs() []string {
	if db == nil {
		return nil
	}
	return slices.Clone(db.ids)
}

// Aliases returns the names linked to the zone id, sorted.
func (db *Database) Aliases(id string) []string {
	if db == nil {
		return nil
	}
	return slices.Clone(db.aliases[id])
}

// Location returns the table loaded for the zone or alias id.
func (db *Database) Location(id string) (*rfc9636.Location, bool) {
	if db == nil {
		return nil, false
	}
	e, ok := db.entries[foldID(id)]
	return e.loc, ok
}

// Len returns the number of names, aliases included.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}
