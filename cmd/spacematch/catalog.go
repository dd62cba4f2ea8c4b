package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/HerbHall/spacematch/internal/config"
	pkgcatalog "github.com/HerbHall/spacematch/pkg/catalog"
)

// loadCatalog opens the catalog at path, or the embedded one when path is
// empty.
func loadCatalog(path string) ([]pkgcatalog.Space, error) {
	cat := pkgcatalog.NewCatalog()
	if path != "" {
		var err error
		if cat, err = pkgcatalog.LoadFile(path); err != nil {
			return nil, err
		}
	}
	spaces, err := cat.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return spaces, nil
}

// catalogPath prefers the --catalog flag over catalog.path.
func catalogPath(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.GetString("catalog.path")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
