package main

import "catalog-tracker/cmd"

func main() {
	cmd.Execute()
}
