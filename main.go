package main

import "shellrun/cmd"

func main() {
	cmd.Execute()
}
