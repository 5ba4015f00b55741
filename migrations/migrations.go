// Package migrations embeds the SQL schema files in apply order.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Files returns the migration file names sorted by their numeric prefix.
func Files() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
