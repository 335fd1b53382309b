package runner

import (
	"fmt"
	"sort"
	"strings"
)

// Args are tool-supplied command arguments, translated to CLI flags.
// Keys use snake_case and become kebab-case flags. Booleans are
// presence flags, slices repeat the flag, everything else is a
// flag-value pair.
type Args map[string]any

// FlagsFromArgs translates args to CLI flags. The translation is a pure
// function: keys are processed in sorted order and every value kind has
// a defined rendering.
func FlagsFromArgs(args Args) []string {
	if len(args) == 0 {
		return nil
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var flags []string
	for _, key := range keys {
		flag := "--" + strings.ReplaceAll(key, "_", "-")
		switch value := args[key].(type) {
		case bool:
			if value {
				flags = append(flags, flag)
			}
		case []any:
			for _, item := range value {
				flags = append(flags, flag, fmt.Sprintf("%v", item))
			}
		case []string:
			for _, item := range value {
				flags = append(flags, flag, item)
			}
		default:
			flags = append(flags, flag, fmt.Sprintf("%v", value))
		}
	}
	return flags
}
