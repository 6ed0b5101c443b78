package main

import "strings"

// shortFlags maps the two-letter single-dash flags onto their long names.
// pflag only allows one-letter shorthands, so these are rewritten before parsing.
var shortFlags = map[string]string{
	"-f1": "--folder1",
	"-f2": "--folder2",
}

// expandShortFlags rewrites "-f1 x" and "-f1=x" style arguments; everything
// after a bare "--" is left alone.
func expandShortFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := shortFlags[name]; ok {
			if hasValue {
				arg = long + "=" + value
			} else {
				arg = long
			}
		}
		out = append(out, arg)
	}
	return out
}
