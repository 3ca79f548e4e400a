package main

import "thoreinstein.com/pullr/cmd"

func main() {
	cmd.Execute()
}
