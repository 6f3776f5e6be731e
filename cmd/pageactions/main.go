package main

import "page-actions/cmd"

func main() {
	cmd.Execute()
}
