package main

import "github.com/oshokin/vsc-portable/cmd/vsc-portable/cmd"

func main() {
	cmd.Execute()
}
