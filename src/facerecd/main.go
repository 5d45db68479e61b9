package main

import "github.com/q-controller/facerecd/src/facerecd/cmd"

func main() {
	cmd.Execute()
}
