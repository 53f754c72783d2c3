// Package reconcile merges freshly derived schema extensions against the
// previously persisted artifact. Fresh entries overwrite by key, stale
// generator-owned entries are deleted, and foreign-owned entries are
// preserved untouched.
package reconcile

import (
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/buildforge/schemagen/pkg/errors"
	"github.com/buildforge/schemagen/pkg/logging"
	"github.com/buildforge/schemagen/pkg/schema"
)

// Load reads the persisted extension artifact. A missing file is not an
// error and yields an empty mapping; unparsable JSON is fatal.
func Load(path string) (schema.ExtensionMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Debug().Str("path", path).Msg("No prior schema artifact, starting empty")
		return schema.ExtensionMap{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var prior schema.ExtensionMap
	if err := json.Unmarshal(data, &prior); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if prior == nil {
		prior = schema.ExtensionMap{}
	}
	return prior, nil
}

// Merge reconciles a fresh extension batch against the persisted mapping:
//  1. start from the persisted mapping
//  2. overwrite or insert every key present in the fresh batch
//  3. delete keys owned by a recognized generator label that the fresh batch
//     no longer produces
//  4. keep foreign-owned keys regardless of presence in the fresh batch
func Merge(prior schema.ExtensionMap, fresh []schema.Extension, owned []string) schema.ExtensionMap {
	freshMap := schema.GroupByName(fresh)
	ownedSet := make(map[string]struct{}, len(owned))
	for _, label := range owned {
		ownedSet[label] = struct{}{}
	}

	result := make(schema.ExtensionMap, len(prior)+len(freshMap))
	for name, entry := range prior {
		result[name] = entry
	}
	for name, entry := range freshMap {
		result[name] = entry
	}

	for name, entry := range prior {
		if _, stillProduced := freshMap[name]; stillProduced {
			continue
		}
		if _, generatorOwned := ownedSet[entry.From]; generatorOwned {
			logging.Debug().Str("name", name).Str("from", entry.From).Msg("Deleting stale generator-owned entry")
			delete(result, name)
		}
	}

	return result
}

// Keys returns the mapping's keys in ascending lexicographic order, the
// order the artifact is written in.
func Keys(m schema.ExtensionMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
