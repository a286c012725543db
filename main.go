package main

import "jiraharvest/cmd"

func main() {
	cmd.Execute()
}
