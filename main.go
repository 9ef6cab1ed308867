// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "github.com/pixell-global/pixell-kit/cmd/pixell"
)

func main() {
	cmd.Execute()
}
