package main

import "github.com/laccsec/growthbi/cmd"

func main() {
	cmd.Execute()
}
