// SPDX-License-Identifier: MPL-2.0

package resolve

import "strings"

// Interpreter options whose value may be the following argument.
var valueOptions = map[byte]bool{'W': true, 'X': true, 'Q': true}

// Long interpreter options that take the following argument as their value.
var longValueOptions = map[string]bool{"--check-hash-based-pycs": true}

// ScriptArg returns the script path among interpreter arguments: the first
// argument that is not an option or an option's value. Arguments after "-c"
// or "-m" are not scripts, and "-" means stdin; both yield false.
func ScriptArg(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-":
			return "", false
		case arg == "--":
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		case strings.HasPrefix(arg, "--"):
			if longValueOptions[arg] {
				i++
			}
		case strings.HasPrefix(arg, "-"):
			stop, takesNext := scanShortOptions(arg[1:])
			if stop {
				return "", false
			}
			if takesNext {
				i++
			}
		default:
			return arg, true
		}
	}
	return "", false
}

// scanShortOptions walks a cluster of short options such as "-bBc". stop is
// true when the cluster ends with -c or -m; takesNext is true when the last
// option's value is the following argument.
func scanShortOptions(cluster string) (stop, takesNext bool) {
	for i := 0; i < len(cluster); i++ {
		switch c := cluster[i]; {
		case c == 'c' || c == 'm':
			return true, false
		case valueOptions[c]:
			return false, i == len(cluster)-1
		}
	}
	return false, false
}
