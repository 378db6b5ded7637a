package main

import "github.com/lineguard/lineguard/cmd/lineguard"

func main() {
	lineguard.Execute()
}
