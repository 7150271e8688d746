package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"record-mapper/internal/analyze"
	"record-mapper/internal/cli/config"
	"record-mapper/internal/common"
	"record-mapper/internal/naming"
)

// loadGraph analyzes the packages matched by patterns.
func loadGraph(ctx context.Context, patterns ...string) (*analyze.TypeGraph, error) {
	cfg := configFrom(ctx)
	logger := config.GetLogger(ctx)

	logger.Debug("loading packages", "patterns", patterns, "dir", cfg.Dir)

	graph, err := analyze.NewAnalyzer(analyze.WithDir(cfg.Dir)).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	logger.Debug("packages loaded", "packages", len(graph.Packages), "types", len(graph.Types))

	return graph, nil
}

// findStructs resolves names against the types of loaded packages. A name is
// either a bare type name or pkg.Type.
func findStructs(graph *analyze.TypeGraph, names []string) ([]*analyze.TypeInfo, error) {
	var known []string

	for id, info := range graph.Types {
		if _, ok := graph.Packages[id.PkgPath]; ok && info.Kind == analyze.TypeKindStruct {
			known = append(known, id.Name)
		}
	}

	out := make([]*analyze.TypeInfo, 0, len(names))

	for _, name := range names {
		var matches []*analyze.TypeInfo

		for id, info := range graph.Types {
			if _, ok := graph.Packages[id.PkgPath]; !ok || info.Kind != analyze.TypeKindStruct {
				continue
			}

			if id.Name == name || id.Short() == name {
				matches = append(matches, info)
			}
		}

		if common.IsEmpty(matches) {
			msg := fmt.Sprintf("struct %q not found", name)
			if s := naming.Suggest(name, known, naming.DefaultThreshold, 3); len(s) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
			}

			return nil, errors.New(msg)
		}

		if common.IsMultiple(matches) {
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID.String()
			}

			slices.Sort(ids)

			return nil, fmt.Errorf("struct %q is ambiguous: %s", name, strings.Join(ids, ", "))
		}

		out = append(out, matches[0])
	}

	return out, nil
}
