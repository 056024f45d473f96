package main

import "github.com/AustinGrey/bake-file/internal/cli"

func main() {
	cli.Execute()
}
