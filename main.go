package main

import "github.com/Justype/qcsub/cmd"

func main() {
	cmd.Execute()
}
