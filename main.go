package main

import "github.com/newhook/c64/cmd"

func main() {
	cmd.Execute()
}
