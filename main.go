// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/cclauss/python-launcher/cmd/py"

func main() {
	cmd.Execute()
}
